package form

import (
	"time"

	"gpssim.weilijiang.com/internal/gpssim"
)

// Values maps field keys to their displayed text.
type Values map[string]string

// Clone returns an independent copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}

// Outcome is the per-field result of one coercion pass.
type Outcome struct {
	Key      string
	Raw      string
	Display  string
	Err      error // nil when Raw was accepted
	Fallback Fallback
}

// Accepted reports whether the raw value was used as entered.
func (o Outcome) Accepted() bool { return o.Err == nil }

// Result is the outcome of Coerce: the corrected display values plus one
// Outcome per field in schema order.
type Result struct {
	Display  Values
	Outcomes []Outcome
}

// Rejected returns the outcomes whose raw value was replaced.
func (r Result) Rejected() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Accepted() {
			out = append(out, o)
		}
	}
	return out
}

// Pipeline applies a fixed schema to raw form values.
type Pipeline struct {
	fields []Field
}

// New builds the pipeline. now seeds the timestamp default; nil means
// time.Now.
func New(now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{fields: buildSchema(now)}
}

// Fields returns the schema in commit order.
func (p *Pipeline) Fields() []Field {
	return append([]Field(nil), p.fields...)
}

// Defaults returns the initial display values.
func (p *Pipeline) Defaults() Values {
	out := make(Values, len(p.fields))
	for _, f := range p.fields {
		out[f.Key] = f.Default()
	}
	return out
}

// Coerce writes every field of values into cfg in schema order. Each field
// stands alone: a rejected value falls back (unset, or a freshly computed
// default) without touching any other field, and the returned display
// shows exactly what cfg now holds. Keys missing from values are treated
// as blank. The caller must hold the lock guarding cfg.
func (p *Pipeline) Coerce(values Values, cfg *gpssim.Config) Result {
	res := Result{
		Display:  make(Values, len(p.fields)),
		Outcomes: make([]Outcome, 0, len(p.fields)),
	}
	for _, f := range p.fields {
		raw := values[f.Key]
		out := Outcome{Key: f.Key, Raw: raw, Display: raw, Fallback: f.Fallback}
		if err := f.set(cfg, raw); err != nil {
			out.Err = err
			out.Display = p.fallback(f, cfg)
		}
		res.Display[f.Key] = out.Display
		res.Outcomes = append(res.Outcomes, out)
	}
	return res
}

// fallback applies f's fallback to cfg and returns the text to display.
func (p *Pipeline) fallback(f Field, cfg *gpssim.Config) string {
	if f.Fallback == FallbackDefault {
		def := f.Default()
		if err := f.set(cfg, def); err == nil {
			return def
		}
	}
	if f.clear != nil {
		f.clear(cfg)
	}
	return ""
}
