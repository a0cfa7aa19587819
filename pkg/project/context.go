package project

import "sort"

// Context accumulates option values collected for one project, keyed by
// option id.
type Context struct {
	values map[string]string
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{values: make(map[string]string)}
}

// Set stores value under id, replacing any earlier value.
func (c *Context) Set(id, value string) {
	if c.values == nil {
		c.values = make(map[string]string)
	}
	c.values[id] = value
}

// Get returns the value stored under id.
func (c *Context) Get(id string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.values[id]
	return v, ok
}

// Len reports the number of stored values.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}

// Values returns a copy of the stored values.
func (c *Context) Values() map[string]string {
	out := make(map[string]string, c.Len())
	if c == nil {
		return out
	}
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Keys returns the stored ids in lexical order.
func (c *Context) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Data returns the values in the shape template engines consume.
func (c *Context) Data() map[string]any {
	out := make(map[string]any, c.Len())
	if c == nil {
		return out
	}
	for k, v := range c.values {
		out[k] = v
	}
	return out
}
