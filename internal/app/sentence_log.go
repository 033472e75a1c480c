package app

import "sync"

// SentenceLog is a circular buffer of transmitted sentences. Push is called
// from the serve goroutine; the console reads it on every tick.
type SentenceLog struct {
	mu    sync.Mutex
	buf   []string
	pos   int
	count int
	total int
}

// NewSentenceLog creates a log holding the last capacity sentences.
func NewSentenceLog(capacity int) *SentenceLog {
	if capacity < 1 {
		capacity = 1
	}
	return &SentenceLog{
		buf: make([]string, capacity),
	}
}

// Push adds a sentence, evicting the oldest when full.
func (l *SentenceLog) Push(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf[l.pos] = s
	l.pos = (l.pos + 1) % len(l.buf)
	if l.count < len(l.buf) {
		l.count++
	}
	l.total++
}

// Values returns the stored sentences oldest first.
func (l *SentenceLog) Values() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count == 0 {
		return nil
	}
	result := make([]string, l.count)
	if l.count < len(l.buf) {
		copy(result, l.buf[:l.count])
	} else {
		n := copy(result, l.buf[l.pos:])
		copy(result[n:], l.buf[:l.pos])
	}
	return result
}

// Last returns the most recent n sentences, oldest first.
func (l *SentenceLog) Last(n int) []string {
	all := l.Values()
	if n < len(all) {
		return all[len(all)-n:]
	}
	return all
}

// Total is the number of sentences ever pushed.
func (l *SentenceLog) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
