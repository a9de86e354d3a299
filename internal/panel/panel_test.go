// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package panel

import (
	"errors"
	"slices"
	"testing"

	"github.com/olegiv/ocms-i18ntabs/internal/model"
)

func TestTransform_DoesNotMutate(t *testing.T) {
	tpl := Container("Main",
		Field("name", WithTargets("slug")),
		Container("Row", Field("summary")),
	)

	out := Transform(tpl, func(n *Node) *Node {
		if n.IsLeaf() {
			n.FieldName = "x_" + n.FieldName
			n.Targets = append(n.Targets, "other")
		}
		return n
	})

	if got := tpl.FieldNames(); !slices.Equal(got, []string{"name", "summary"}) {
		t.Errorf("template changed: %v", got)
	}
	if !slices.Equal(tpl.Children[0].Targets, []string{"slug"}) {
		t.Errorf("template targets changed: %v", tpl.Children[0].Targets)
	}
	if got := out.FieldNames(); !slices.Equal(got, []string{"x_name", "x_summary"}) {
		t.Errorf("FieldNames() = %v", got)
	}
	if out == tpl || out.Children[1] == tpl.Children[1] {
		t.Error("Transform shared nodes with the template")
	}
}

func TestTransform_Drop(t *testing.T) {
	tpl := Container("", Field("a"), Field("b"), Field("c"))

	out := Transform(tpl, func(n *Node) *Node {
		if n.FieldName == "b" {
			return nil
		}
		return n
	})

	if got := out.FieldNames(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("FieldNames() = %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		wantErr bool
	}{
		{"ok", Container("Main", Field("a"), Container("Row", Field("b"))), false},
		{"empty field", Container("Main", &Node{Kind: KindField}), true},
		{"field with children", &Node{Kind: KindField, FieldName: "a", Children: []*Node{Field("b")}}, true},
		{"container with field", &Node{Kind: KindContainer, FieldName: "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, model.ErrConfiguration) {
				t.Errorf("error %v is not ErrConfiguration", err)
			}
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		node *Node
		want string
	}{
		{Container("Untranslated data"), "untranslated_data"},
		{Field("title"), "title"},
		{&Node{Kind: KindContainer, Heading: "French 🟢", CurrentLocale: "fr"}, "translations_fr"},
	}

	for _, tt := range tests {
		if got := tt.node.CleanName(); got != tt.want {
			t.Errorf("CleanName() = %q, want %q", got, tt.want)
		}
	}
}

func TestFind(t *testing.T) {
	tr := Translations("{locale}")
	root := Container("", Container("Main", Field("a")), tr)

	if got := root.Find(KindTranslations); got != tr {
		t.Errorf("Find() = %v", got)
	}
	if got := Container("").Find(KindTranslations); got != nil {
		t.Errorf("Find() = %v, want nil", got)
	}
}
