package domain

// DerivedKey is the 256-bit symmetric key produced from a user's master secret.
// It lives only on the call stack or inside a session cache entry and is zeroed
// by whoever owns it once they are done.
type DerivedKey []byte

// Valid reports whether the key has the expected length.
func (k DerivedKey) Valid() bool {
	return len(k) == KeySize
}

// Clone returns an independent copy of the key. The caller owns the copy and
// must zero it.
func (k DerivedKey) Clone() DerivedKey {
	if k == nil {
		return nil
	}
	c := make(DerivedKey, len(k))
	copy(c, k)
	return c
}

// Zero overwrites the key bytes in place.
func (k DerivedKey) Zero() {
	Zero(k)
}
