package core

import (
	"encoding/hex"
	"math/bits"
)

// PositionStatus records, per user, which reserves are used as collateral
// and which are borrowed, plus whether the user carries a positive risk
// premium. Reserve ids index directly into the bit vectors.
type PositionStatus struct {
	UserID     string
	HasPremium bool
	Collateral Bits
	Borrowing  Bits
	Version    int64
}

// NewPositionStatus new empty status for a user
func NewPositionStatus(userID string) *PositionStatus {
	return &PositionStatus{UserID: userID}
}

func (s *PositionStatus) IsCollateral(id uint64) bool {
	return s.Collateral.Get(id)
}

func (s *PositionStatus) IsBorrowing(id uint64) bool {
	return s.Borrowing.Get(id)
}

func (s *PositionStatus) SetCollateral(id uint64, v bool) {
	s.Collateral.Set(id, v)
}

func (s *PositionStatus) SetBorrowing(id uint64, v bool) {
	s.Borrowing.Set(id, v)
}

// Empty reports whether the user has no active collateral or debt at all.
func (s *PositionStatus) Empty() bool {
	return s.Collateral.Empty() && s.Borrowing.Empty()
}

// Next returns the highest reserve id at or below cursor flagged as
// collateral or debt. ok is false once no flagged reserve remains; callers
// iterate descending with cursor = id - 1.
func (s *PositionStatus) Next(cursor uint64) (id uint64, borrowing, collateral bool, ok bool) {
	id, ok = prevSet(cursor, s.Collateral, s.Borrowing)
	if !ok {
		return 0, false, false, false
	}
	return id, s.Borrowing.Get(id), s.Collateral.Get(id), true
}

// NextBorrowing returns the highest borrowed reserve id at or below cursor.
func (s *PositionStatus) NextBorrowing(cursor uint64) (id uint64, ok bool) {
	return prevSet(cursor, s.Borrowing)
}

// CollateralCount counts collateral reserves with id <= cursor; used as an
// upper bound when sizing the risk list.
func (s *PositionStatus) CollateralCount(cursor uint64) int {
	return s.Collateral.CountTo(cursor)
}

func prevSet(cursor uint64, vs ...Bits) (uint64, bool) {
	found := false
	var best uint64
	for _, v := range vs {
		if id, ok := v.PrevSet(cursor); ok && (!found || id > best) {
			best, found = id, true
		}
	}
	return best, found
}

// Bits is a dense little-endian bit vector addressed by reserve id.
type Bits []uint64

func (b Bits) Get(i uint64) bool {
	w := i / 64
	if w >= uint64(len(b)) {
		return false
	}
	return b[w]&(1<<(i%64)) != 0
}

func (b *Bits) Set(i uint64, v bool) {
	w := i / 64
	for uint64(len(*b)) <= w {
		*b = append(*b, 0)
	}
	if v {
		(*b)[w] |= 1 << (i % 64)
	} else {
		(*b)[w] &^= 1 << (i % 64)
	}
}

func (b Bits) Empty() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}

// PrevSet returns the highest set index at or below cursor.
func (b Bits) PrevSet(cursor uint64) (uint64, bool) {
	w := int(cursor / 64)
	if w >= len(b) {
		w = len(b) - 1
		cursor = uint64(len(b))*64 - 1
	}
	for ; w >= 0; w-- {
		word := b[w]
		if uint64(w) == cursor/64 {
			shift := 63 - cursor%64
			word = word << shift >> shift
		}
		if word != 0 {
			return uint64(w)*64 + uint64(bits.Len64(word)) - 1, true
		}
	}
	return 0, false
}

// CountTo counts set bits at indexes <= cursor.
func (b Bits) CountTo(cursor uint64) int {
	n := 0
	for w := 0; w < len(b); w++ {
		word := b[w]
		if uint64(w) > cursor/64 {
			break
		}
		if uint64(w) == cursor/64 {
			shift := 63 - cursor%64
			word = word << shift >> shift
		}
		n += bits.OnesCount64(word)
	}
	return n
}

// Hex encodes the vector for storage.
func (b Bits) Hex() string {
	buf := make([]byte, 8*len(b))
	for i, w := range b {
		for j := 0; j < 8; j++ {
			buf[i*8+j] = byte(w >> (8 * j))
		}
	}
	return hex.EncodeToString(buf)
}

// ParseBits decodes a vector produced by Hex.
func ParseBits(s string) (Bits, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	b := make(Bits, (len(buf)+7)/8)
	for i, c := range buf {
		b[i/8] |= uint64(c) << (8 * (i % 8))
	}
	return b, nil
}
