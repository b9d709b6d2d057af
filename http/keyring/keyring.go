package keyring

type Keyable interface {
	// The key as in a key-value pair.
	Key() string

	// A stringified version of the key, for logging.
	String() string
}

type Key string

// Key returns the key so it can be used as a key in a map[string].
func (k Key) Key() string { return string(k) }

// String formats the stringified key with additional contextual information.
func (k Key) String() string {
	return "http context key: " + string(k)
}

// A Keyringable stores arbitrary keys, accessible by a string name,
// and makes it convenient to grab the CurrentUserKey.
type Keyringable interface {
	CurrentUserKey() Keyable
	Key(name string) Keyable
	keys() map[string]Keyable
}

// Keyring stores Keyables and cannot be mutated outside of a constructor.
type Keyring struct {
	currentUser string
	internal    map[string]Keyable
}

// NewKeyring constructs a Keyring from the given Keyables.
// The key for the authenticated user must be retrieved through CurrentUserKey.
// NewKeyring accepts an arbitrary number of other Keyables,
// accessible through the Key method.
func NewKeyring(currentUserKey Keyable, additional ...Keyable) Keyringable {
	if currentUserKey == nil {
		return nil
	}

	kr := &Keyring{
		currentUser: currentUserKey.Key(),
		internal: map[string]Keyable{
			currentUserKey.Key(): currentUserKey,
		},
	}

	for _, k := range additional {
		if k == nil {
			continue
		}
		kr.internal[k.Key()] = k
	}

	return kr
}

// CurrentUserKey returns the key set in the currentUserKey parameter
// of NewKeyring or nil.
func (kr *Keyring) CurrentUserKey() Keyable {
	return kr.internal[kr.currentUser]
}

// Key returns the key by name (i.e., Keyable.Key()) or nil.
func (kr *Keyring) Key(name string) Keyable {
	return kr.internal[name]
}

// keys exposes the internal map of Keyables.
func (kr *Keyring) keys() map[string]Keyable { return kr.internal }

// WithKeyring constructs a new Keyringable from the parent
// and adds additional Keyables to the new Keyringable.
func WithKeyring(parent Keyringable, additional ...Keyable) Keyringable {
	kr := &Keyring{
		currentUser: parent.CurrentUserKey().Key(),
		internal:    make(map[string]Keyable),
	}

	for k, v := range parent.keys() {
		kr.internal[k] = v
	}

	for _, k := range additional {
		if k == nil {
			continue
		}

		kr.internal[k.Key()] = k
	}

	return kr
}
