package services

// Revalidator is told whenever the stored state behind a key may have changed.
// Keys are collection and record kind names.
type Revalidator interface {
	Revalidate(key string)
}

// RevalidatorFunc adapts a function to Revalidator
type RevalidatorFunc func(key string)

func (f RevalidatorFunc) Revalidate(key string) { f(key) }
