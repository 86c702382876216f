package component

import "github.com/milk9111/protagonist/motion"

// Controller holds the motion controller that drives a character body.
// Last is the most recent tick's sample, kept for debug overlays.
type Controller struct {
	Motion *motion.Controller
	Last   motion.Sample
}

var ControllerComponent = NewComponent[Controller]()
