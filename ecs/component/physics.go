package component

import "github.com/milk9111/protagonist/physics"

// PhysicsBody links an entity to its Chipmunk-backed rigid body.
type PhysicsBody struct {
	Body   *physics.Body
	Static bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// Support holds the ground-contact sensor attached to a character body.
type Support struct {
	Sensor *physics.SupportSensor
}

var SupportComponent = NewComponent[Support]()
