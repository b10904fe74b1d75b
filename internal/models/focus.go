package models

import (
	"fmt"
)

type FocusKind string

const (
	FocusNone   FocusKind = ""
	FocusNode   FocusKind = "node"
	FocusSector FocusKind = "sector"
)

// Focus selects the node or sector whose one-hop neighborhood is shown. The zero
// value means no focus.
type Focus struct {
	Kind  FocusKind `json:"kind,omitempty"`
	Value string    `json:"value,omitempty"`
}

func NodeFocus(id string) Focus {
	return Focus{Kind: FocusNode, Value: id}
}

func SectorFocus(sector string) Focus {
	return Focus{Kind: FocusSector, Value: sector}
}

func (f Focus) IsZero() bool {
	return f.Kind == FocusNone
}

// ValidateKind rejects unknown kinds. An empty value passes; it matches nothing.
func (f Focus) ValidateKind() error {
	switch f.Kind {
	case FocusNone, FocusNode, FocusSector:
		return nil
	default:
		return fmt.Errorf("unknown focus kind %q", f.Kind)
	}
}

// Validate rejects unknown kinds and a focus kind without a value.
func (f Focus) Validate() error {
	if err := f.ValidateKind(); err != nil {
		return err
	}
	if !f.IsZero() && f.Value == "" {
		return fmt.Errorf("focus %s requires a value", f.Kind)
	}
	return nil
}

func (f Focus) String() string {
	if f.IsZero() {
		return "none"
	}
	return string(f.Kind) + ":" + f.Value
}
