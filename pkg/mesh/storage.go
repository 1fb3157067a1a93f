package mesh

// Storage is a byte buffer handed to a container, together with the flags
// that say whether the container owns it and may write to it.
//
// Owned storage is released through its deleter when the container is
// closed, or simply dropped for the garbage collector when it has none.
// Borrowed storage is never freed.
type Storage struct {
	data     []byte
	flags    DataFlags
	borrowed bool
	deleter  func([]byte) error
}

// StorageOption configures owned storage.
type StorageOption func(*Storage)

// ReadOnly clears DataMutable.
func ReadOnly() StorageOption {
	return func(s *Storage) { s.flags &^= DataMutable }
}

// WithDeleter runs fn on the buffer when the storage is freed.
func WithDeleter(fn func([]byte) error) StorageOption {
	return func(s *Storage) { s.deleter = fn }
}

// Owned wraps data as owned, mutable storage.
func Owned(data []byte, opts ...StorageOption) Storage {
	s := Storage{data: data, flags: DataOwned | DataMutable}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Borrowed wraps memory owned by someone else. flags must not include
// DataOwned; the container constructors reject it.
func Borrowed(flags DataFlags, data []byte) Storage {
	return Storage{data: data, flags: flags, borrowed: true}
}

// Bytes returns the buffer.
func (s Storage) Bytes() []byte { return s.data }

// Flags returns the ownership and mutability flags.
func (s Storage) Flags() DataFlags { return s.flags }

// IsBorrowed reports whether s was created with Borrowed.
func (s Storage) IsBorrowed() bool { return s.borrowed }

// Free drops the buffer, running the deleter of owned storage. Calling it
// again is a no-op.
func (s *Storage) Free() error {
	del, data := s.deleter, s.data
	s.deleter, s.data = nil, nil
	if s.borrowed || del == nil {
		return nil
	}
	return del(data)
}

// placeholder is what a released buffer leaves behind: zero length and
// not owned.
func (s Storage) placeholder() Storage {
	return Storage{flags: s.flags &^ DataOwned, borrowed: true}
}
