package seed

import (
	"context"
	"fmt"

	"selam/internal/content"
	"selam/pkg/types"
)

// SeedContent loads sample site content through the coordinators, so it
// lands wherever a real write would. IDs are fixed so reseeding a store
// that already holds them fails loudly instead of duplicating.
//
// To generate new IDs: `go run ./cmd/selam nanoid`
func SeedContent(
	ctx context.Context,
	updates *content.Coordinator[*types.Update, types.UpdatePatch],
	documents *content.Coordinator[*types.Document, types.DocumentPatch],
) error {
	sampleUpdates := []*types.Update{
		{
			ID:          "Jc0lhxGeJ3A2D5tQrN8wi",
			Title:       "Community Clean-Up Day",
			Description: "Over forty volunteers joined us for a day of cleaning and tree planting around the market area.",
			MediaType:   types.MediaTypeImage,
		},
		{
			ID:          "x7MpTzVbS4KqWn2dYf9Ro",
			Title:       "New Partnership With Local Schools",
			Description: "We signed a partnership with three schools to support weekend mentorship programs for students.",
			MediaType:   types.MediaTypeImage,
		},
		{
			ID:          "aR5nKw8cQ1LyBv3eHm6Zu",
			Title:       "Volunteer Training Weekend",
			Description: "Our newest volunteers completed a two-day orientation covering field work and community outreach.",
			MediaType:   types.MediaTypeImage,
		},
	}

	sampleDocuments := []*types.Document{
		{
			ID:          "Fq2jXs7bN9TdUk4mPw1Gv",
			Title:       "Annual Report",
			Description: "Programs, reach, and finances for the past year.",
			Category:    types.CategoryReport,
			FileName:    "annual-report.pdf",
			FileURL:     "/uploads/documents/annual-report.pdf",
			FileType:    "application/pdf",
		},
	}

	for _, update := range sampleUpdates {
		if _, err := updates.Save(ctx, update); err != nil {
			return fmt.Errorf("seed update %q: %w", update.Title, err)
		}
	}

	for _, doc := range sampleDocuments {
		if _, err := documents.Save(ctx, doc); err != nil {
			return fmt.Errorf("seed document %q: %w", doc.Title, err)
		}
	}

	return nil
}
