package combat

import (
	"fmt"

	"github.com/cory-johannsen/battlelog/internal/narration"
	"github.com/cory-johannsen/battlelog/internal/replay"
)

// Category is the kind of action a combatant selects for a turn.
type Category int

const (
	CategoryAttack Category = iota
	CategoryDefend
	CategoryPriestMagic
	CategoryMageMagic
	CategoryBreath
)

// LogID returns the identifier reported in narration metadata.
func (c Category) LogID() string {
	return c.Kind().String()
}

// Kind returns the replay code recorded when the category is selected.
func (c Category) Kind() replay.Kind {
	switch c {
	case CategoryDefend:
		return replay.KindDefend
	case CategoryPriestMagic:
		return replay.KindPriestMagic
	case CategoryMageMagic:
		return replay.KindMageMagic
	case CategoryBreath:
		return replay.KindBreath
	default:
		return replay.KindPhysicalAttack
	}
}

// Message returns the announcement of the category for actorName.
func (c Category) Message(actorName string) string {
	switch c {
	case CategoryDefend:
		return fmt.Sprintf("%s is defending.", actorName)
	case CategoryPriestMagic:
		return fmt.Sprintf("%s prays for healing.", actorName)
	case CategoryMageMagic:
		return fmt.Sprintf("%s casts a spell.", actorName)
	case CategoryBreath:
		return fmt.Sprintf("%s breathes fire!", actorName)
	default:
		return fmt.Sprintf("%s attacks!", actorName)
	}
}

// LogType returns the narration type of the announcement.
func (c Category) LogType() narration.Type {
	if c == CategoryDefend {
		return narration.TypeGuard
	}
	return narration.TypeAction
}

// usesCharges reports whether the category consumes Uses.
func (c Category) usesCharges() bool {
	return c == CategoryPriestMagic || c == CategoryMageMagic || c == CategoryBreath
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{CategoryAttack, CategoryDefend, CategoryPriestMagic, CategoryMageMagic, CategoryBreath}
}

// ParseCategory returns the category whose LogID is id.
func ParseCategory(id string) (Category, error) {
	for _, c := range Categories() {
		if c.LogID() == id {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown action category %q", id)
}
