package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 40 bits of space is plenty for a single workspace.
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// NextID returns a fresh id that collides with nothing in db. Prefixes stay
// for readability: proj-xxx, phase-xxx, feat-xxx, task-xxx.
func NextID(db *DB, prefix string) string {
	for i := 0; i < 20; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !idExists(db, id) {
			return id
		}
	}
	// crypto/rand failure or absurd collision streak: widen the suffix.
	var b [10]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("%s-%x", prefix, b)
}

func idExists(db *DB, id string) bool {
	for pi := range db.Projects {
		p := &db.Projects[pi]
		if p.ID == id {
			return true
		}
		for hi := range p.Phases {
			ph := &p.Phases[hi]
			if ph.ID == id {
				return true
			}
			for fi := range ph.Features {
				f := &ph.Features[fi]
				if f.ID == id {
					return true
				}
				for si := range f.Subtasks {
					if f.Subtasks[si].ID == id {
						return true
					}
				}
			}
		}
	}
	return false
}
