package record

// Record is one document reduced to key/value pairs in first-seen key order.
type Record struct {
	keys   []string
	values map[string]Value
}

func New() *Record {
	return &Record{
		values: make(map[string]Value),
	}
}

// Set stores v under key. Replacing a key keeps its original position.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}

	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}

	r.values[key] = v
}

func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r *Record) Len() int {
	return len(r.keys)
}
