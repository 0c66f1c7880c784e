// ABOUTME: Tests for tag get-or-create and entry tag sets.
// ABOUTME: Verifies case-insensitive de-duplication.
package storage

import (
	"reflect"
	"testing"

	"github.com/harperreed/cycle/internal/models"
)

func TestGetOrCreateTagIdempotent(t *testing.T) {
	db := setupTestDB(t)

	first, err := db.GetOrCreateTag("Work")
	if err != nil {
		t.Fatalf("GetOrCreateTag failed: %v", err)
	}
	second, err := db.GetOrCreateTag("work")
	if err != nil {
		t.Fatalf("GetOrCreateTag failed: %v", err)
	}
	third, err := db.GetOrCreateTag("  WORK  ")
	if err != nil {
		t.Fatalf("GetOrCreateTag failed: %v", err)
	}

	if first != second || second != third {
		t.Errorf("tag ids differ: %d, %d, %d", first, second, third)
	}

	tags, err := db.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("tags = %d, want exactly 1", len(tags))
	}
	if tags[0].Name != "work" {
		t.Errorf("tag name = %q, want lowercase %q", tags[0].Name, "work")
	}
}

func TestGetOrCreateTagEmpty(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.GetOrCreateTag("   "); err == nil {
		t.Error("blank tag name should fail")
	}
}

func TestSetEntryTagsReplaces(t *testing.T) {
	db := setupTestDB(t)

	e := models.NewEntry()
	if err := db.CreateEntry(e); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	if err := db.SetEntryTags(e.ID, []string{"alpha", "beta"}); err != nil {
		t.Fatalf("SetEntryTags failed: %v", err)
	}
	if err := db.SetEntryTags(e.ID, []string{"beta", "gamma", "", "  "}); err != nil {
		t.Fatalf("SetEntryTags failed: %v", err)
	}

	got, err := db.GetEntry(e.ID)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if !reflect.DeepEqual(got.Tags, []string{"beta", "gamma"}) {
		t.Errorf("Tags = %v, want [beta gamma]", got.Tags)
	}
}

func TestListTagsUsageCounts(t *testing.T) {
	db := setupTestDB(t)

	e1 := models.NewEntry()
	e2 := models.NewEntry()
	for _, e := range []*models.Entry{e1, e2} {
		if err := db.CreateEntry(e); err != nil {
			t.Fatalf("CreateEntry failed: %v", err)
		}
	}
	if err := db.SetEntryTags(e1.ID, []string{"shared", "solo"}); err != nil {
		t.Fatalf("SetEntryTags failed: %v", err)
	}
	if err := db.SetEntryTags(e2.ID, []string{"shared"}); err != nil {
		t.Fatalf("SetEntryTags failed: %v", err)
	}

	tags, err := db.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("tags = %d, want 2", len(tags))
	}
	if tags[0].Name != "shared" || tags[0].UsageCount != 2 {
		t.Errorf("first tag = %+v, want shared with count 2", tags[0])
	}
	if tags[1].Name != "solo" || tags[1].UsageCount != 1 {
		t.Errorf("second tag = %+v, want solo with count 1", tags[1])
	}
}

func TestEntryLinks(t *testing.T) {
	db := setupTestDB(t)

	from := models.NewEntry()
	from.Title = "later reflection"
	to := models.NewEntry()
	to.Title = "original entry"
	for _, e := range []*models.Entry{from, to} {
		if err := db.CreateEntry(e); err != nil {
			t.Fatalf("CreateEntry failed: %v", err)
		}
	}

	if _, err := db.CreateEntryLink(from.ID, to.ID, ""); err != nil {
		t.Fatalf("CreateEntryLink failed: %v", err)
	}

	links, err := db.EntryLinks(from.ID)
	if err != nil {
		t.Fatalf("EntryLinks failed: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("links = %d, want 1", len(links))
	}
	if links[0].LinkType != "reflects_on" {
		t.Errorf("LinkType = %q, want reflects_on default", links[0].LinkType)
	}
	if links[0].LinkedTitle != "original entry" {
		t.Errorf("LinkedTitle = %q", links[0].LinkedTitle)
	}

	// Deleting the target entry cascades the link away.
	if err := db.DeleteEntry(to.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	links, err = db.EntryLinks(from.ID)
	if err != nil {
		t.Fatalf("EntryLinks failed: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("links = %d after target delete, want 0", len(links))
	}
}
