package device

import "go.jacobcolvin.com/devlog/log"

// Option configures an [Object] or [Status].
type Option func(*options)

type options struct {
	manager *log.Manager
	obj     *Object
}

// WithManager logs through m instead of [log.Default].
func WithManager(m *log.Manager) Option {
	return func(o *options) {
		o.manager = m
	}
}

// WithObject associates a [Status] with the object it reports on.
func WithObject(obj *Object) Option {
	return func(o *options) {
		o.obj = obj
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.manager == nil {
		o.manager = log.Default()
	}

	return o
}

// Object is a named device. Its log identity is its name.
//
// Create instances with [NewObject].
type Object struct {
	log  *log.Adapter
	name string
}

// NewObject creates an [Object] called name.
func NewObject(name string, opts ...Option) *Object {
	o := &Object{name: name}
	o.log = newOptions(opts).manager.Bind(o)

	return o
}

// Name returns the object's name.
func (o *Object) Name() string {
	return o.name
}

// String returns the object's name.
func (o *Object) String() string {
	return o.name
}

// LogIdentity implements [log.Identifier].
func (o *Object) LogIdentity() (string, error) {
	return o.name, nil
}

// Log returns the adapter bound to o.
func (o *Object) Log() *log.Adapter {
	return o.log
}
