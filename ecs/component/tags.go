package component

type CharacterTag struct{}

var CharacterTagComponent = NewComponent[CharacterTag]()

type StaticTag struct{}

var StaticTagComponent = NewComponent[StaticTag]()

// MenuTag marks the entity a menu bundle uses to announce itself.
type MenuTag struct {
	Title string
}

var MenuTagComponent = NewComponent[MenuTag]()
