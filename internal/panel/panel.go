// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package panel describes admin edit panels and builds the per-locale copies
// of a translations panel.
//
// Trees are never modified in place: Transform and Remap always return new
// nodes, so a template can be shared between requests and locales.
package panel

import (
	"fmt"
	"slices"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/util"
)

// Kind is the kind of a panel node.
type Kind int

const (
	// KindContainer groups child panels (tabs, rows, fieldsets).
	KindContainer Kind = iota
	// KindField binds one form field.
	KindField
	// KindTranslations is the placeholder replaced by one panel per locale.
	KindTranslations
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindTranslations:
		return "translations"
	default:
		return "container"
	}
}

// Node is one panel of an edit handler.
type Node struct {
	Kind     Kind
	Heading  string
	Children []*Node

	// FieldName is set on field panels only.
	FieldName string
	// Targets are other fields filled from this one (slug fields).
	Targets []string

	// CurrentLocale is set on the per-locale copies of a translations panel.
	CurrentLocale string
	// InitialHeading keeps the template heading of a locale panel.
	InitialHeading string
}

// Option configures a node.
type Option func(*Node)

// WithTargets sets the fields auto-populated from a field panel.
func WithTargets(targets ...string) Option {
	return func(n *Node) {
		n.Targets = slices.Clone(targets)
	}
}

// WithHeading sets the heading of a field panel.
func WithHeading(heading string) Option {
	return func(n *Node) {
		n.Heading = heading
	}
}

// Container creates a container panel.
func Container(heading string, children ...*Node) *Node {
	return &Node{Kind: KindContainer, Heading: heading, Children: children}
}

// Field creates a field panel.
func Field(name string, opts ...Option) *Node {
	n := &Node{Kind: KindField, FieldName: name}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Translations creates the translations placeholder. heading may contain
// {key} markers; children may be empty to get one field per translated field.
func Translations(heading string, children ...*Node) *Node {
	return &Node{Kind: KindTranslations, Heading: heading, Children: children}
}

// IsLeaf reports whether n binds a field.
func (n *Node) IsLeaf() bool {
	return n.Kind == KindField
}

// Validate checks that fields have no children and containers no field name.
func (n *Node) Validate() error {
	if n.IsLeaf() {
		if n.FieldName == "" {
			return fmt.Errorf("%w: field panel without field name", model.ErrConfiguration)
		}
		if len(n.Children) > 0 {
			return fmt.Errorf("%w: field panel %q has children", model.ErrConfiguration, n.FieldName)
		}
		return nil
	}
	if n.FieldName != "" {
		return fmt.Errorf("%w: container panel %q binds field %q", model.ErrConfiguration, n.Heading, n.FieldName)
	}
	for _, c := range n.Children {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CleanName returns the identifier of a panel, used as tab id.
// Locale panels are named translations_<code>.
func (n *Node) CleanName() string {
	if n.CurrentLocale != "" {
		return "translations_" + n.CurrentLocale
	}
	if n.IsLeaf() {
		return n.FieldName
	}
	return util.Identifier(n.Heading)
}

// Leaves returns the field panels of the tree in depth-first order.
func (n *Node) Leaves() []*Node {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// FieldNames returns the field names bound in the tree.
func (n *Node) FieldNames() []string {
	leaves := n.Leaves()
	names := make([]string, len(leaves))
	for i, l := range leaves {
		names[i] = l.FieldName
	}
	return names
}

// Find returns the first node of the given kind, depth first.
func (n *Node) Find(kind Kind) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == kind {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(kind); found != nil {
			return found
		}
	}
	return nil
}

// Transform returns a copy of the tree where every node has been passed
// through fn, children first. fn receives a fresh copy it may modify and
// returns the node to use, or nil to drop it.
func Transform(n *Node, fn func(*Node) *Node) *Node {
	if n == nil {
		return nil
	}

	cp := *n
	cp.Targets = slices.Clone(n.Targets)
	cp.Children = nil
	for _, c := range n.Children {
		if tc := Transform(c, fn); tc != nil {
			cp.Children = append(cp.Children, tc)
		}
	}
	return fn(&cp)
}

// Clone returns a deep copy of the tree.
func Clone(n *Node) *Node {
	return Transform(n, func(c *Node) *Node { return c })
}
