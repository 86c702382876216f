package component

import "github.com/google/uuid"

// BundleMember records which loaded scene bundle spawned an entity, so the
// loader can tear the bundle down as a unit.
type BundleMember struct {
	Handle uuid.UUID
	Bundle string
}

var BundleMemberComponent = NewComponent[BundleMember]()
