// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package demo provides demo schemas, seed data and the daily demo reset.
package demo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/ocms-i18ntabs/internal/admin"
	"github.com/olegiv/ocms-i18ntabs/internal/model"
	"github.com/olegiv/ocms-i18ntabs/internal/panel"
	"github.com/olegiv/ocms-i18ntabs/internal/record"
	"github.com/olegiv/ocms-i18ntabs/internal/store"
	"github.com/olegiv/ocms-i18ntabs/internal/util"
)

// foodSchema returns a food schema with the given name.
func foodSchema(name, label string) *record.Schema {
	return &record.Schema{
		Name:  name,
		Label: label,
		Fields: []record.FieldDef{
			{Name: "yum_rating", Label: "Yum rating", Widget: model.WidgetNumber, Required: true},
			{Name: "vegetarian", Widget: model.WidgetCheckbox},
			{Name: "vegan", Widget: model.WidgetCheckbox},
		},
		TranslatedFields: []record.FieldDef{
			{Name: "name", Widget: model.WidgetText, Required: true, MaxLength: 255},
			{Name: "slug", Widget: model.WidgetSlug, MaxLength: 255, HelpText: "Filled from the name when left empty"},
			{Name: "summary", Widget: model.WidgetTextarea, Required: true},
			{Name: "content", Widget: model.WidgetMarkdown, Required: true},
		},
		TitleField: "name",
	}
}

func diet() *panel.Node {
	return panel.Container("Diet", panel.Field("vegetarian"), panel.Field("vegan"))
}

// Admins returns the demo model admins. Each one shows a different way of
// laying out the locale tabs.
func Admins() []*admin.ModelAdmin {
	return []*admin.ModelAdmin{
		// Every field, tabs generated.
		{Schema: foodSchema("food", "Food")},

		// Own layout without translations panel: locale tabs are appended.
		{
			Schema:      foodSchema("food_panels", "Food with panels"),
			EditHandler: panel.Container("", panel.Field("yum_rating"), diet()),
		},

		// Translations panel placed inside the layout with its own heading.
		{
			Schema: foodSchema("food_specific", "Food with specific panels"),
			EditHandler: panel.Container("",
				panel.Container("General", panel.Field("yum_rating")),
				panel.Translations("{code}: {locale} {status}",
					panel.Field("name", panel.WithTargets("slug")),
					panel.Field("slug"),
					panel.Container("HTML content", panel.Field("summary"), panel.Field("content")),
				),
				diet(),
			),
		},
	}
}

type seedFood struct {
	values       record.Values
	translations map[string]record.Values
}

var seedFoods = []seedFood{
	{
		values: record.Values{"yum_rating": "5", "vegetarian": "true", "vegan": "true"},
		translations: map[string]record.Values{
			"fr": {"name": "Pomme", "summary": "Un fruit croquant.", "content": "La **pomme** se mange crue ou cuite."},
			"en": {"name": "Apple", "summary": "A crunchy fruit.", "content": "The **apple** is eaten raw or cooked."},
		},
	},
	{
		values: record.Values{"yum_rating": "4", "vegetarian": "true"},
		translations: map[string]record.Values{
			"fr": {"name": "Fromage", "summary": "Du lait affiné.", "content": "Plus de *mille* variétés."},
		},
	},
	{
		values: record.Values{"yum_rating": "3"},
		translations: map[string]record.Values{
			"fr": {"name": "Saucisson", "summary": "Charcuterie sèche.", "content": "À trancher finement."},
			"en": {"name": "Dry sausage", "summary": "Cured meat.", "content": "Slice it thin."},
			"es": {"name": "Salchichón", "summary": "Embutido curado.", "content": "Cortar en rodajas finas."},
		},
	},
}

// Seed creates the demo records of every demo schema that has none.
func Seed(ctx context.Context, st *store.Store, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, m := range Admins() {
		count, err := st.Queries().CountRecords(ctx, m.Schema.Name)
		if err != nil {
			return fmt.Errorf("counting %s: %w", m.Schema.Name, err)
		}
		if count > 0 {
			logger.Info("demo data already present", "schema", m.Schema.Name, "records", count)
			continue
		}

		for _, food := range seedFoods {
			if err := seed(ctx, st, m.Schema, food); err != nil {
				return err
			}
		}
		logger.Info("demo data seeded", "schema", m.Schema.Name, "records", len(seedFoods))
	}
	return nil
}

func seed(ctx context.Context, st *store.Store, schema *record.Schema, food seedFood) error {
	rec := st.NewRecord(schema)
	rec.Values = food.values.Clone()

	return st.InTx(ctx, func(w record.Writer) error {
		if err := w.SaveRecord(ctx, rec); err != nil {
			return fmt.Errorf("seeding %s: %w", schema.Name, err)
		}
		for code, values := range food.translations {
			values = values.Clone()
			values["slug"] = util.Slugify(values["name"])
			t := &record.Translation{LanguageCode: code, Values: values}
			if err := w.SaveTranslation(ctx, rec, t); err != nil {
				return fmt.Errorf("seeding %s %s translation: %w", schema.Name, code, err)
			}
		}
		return nil
	})
}
