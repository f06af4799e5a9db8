package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type categoryKind int

const (
	categoryCustom categoryKind = iota
	categoryHabit
	categoryGoal
)

const (
	CategoryHabitName = "habit"
	CategoryGoalName  = "goal"
)

// Category is the label of a short. habit and goal are reserved and carry
// fixed semantics; anything else is a user-defined custom category.
type Category struct {
	kind categoryKind
	name string
}

func Habit() Category { return Category{kind: categoryHabit, name: CategoryHabitName} }
func Goal() Category  { return Category{kind: categoryGoal, name: CategoryGoalName} }

// Custom builds a user category. Reserved names map back to their reserved variant.
func Custom(name string) Category {
	return ParseCategory(name)
}

func ParseCategory(raw string) Category {
	name := strings.TrimSpace(raw)
	switch strings.ToLower(name) {
	case CategoryHabitName:
		return Habit()
	case CategoryGoalName:
		return Goal()
	}
	return Category{kind: categoryCustom, name: name}
}

// IsReservedCategory reports whether name collides with a built-in category.
func IsReservedCategory(name string) bool {
	return ParseCategory(name).kind != categoryCustom
}

func (c Category) IsHabit() bool  { return c.kind == categoryHabit }
func (c Category) IsGoal() bool   { return c.kind == categoryGoal }
func (c Category) IsCustom() bool { return c.kind == categoryCustom }
func (c Category) IsZero() bool   { return c.kind == categoryCustom && c.name == "" }
func (c Category) String() string { return c.name }

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.name)
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	*c = ParseCategory(s)
	return nil
}

func (c Category) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(c.name)
}

func (c *Category) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	s, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
	if !ok {
		return fmt.Errorf("category: unexpected bson type %s", t)
	}
	*c = ParseCategory(s)
	return nil
}
