package database

import (
	"testing"
)

func TestBuildListQuery_BasicSelect(t *testing.T) {
	opts := NewListQueryOptions("applications")
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "applications"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WithColumns(t *testing.T) {
	opts := NewListQueryOptions("applications",
		WithColumns("id", "email", "status"),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT "id", "email", "status" FROM "applications"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WithQualifiedColumns(t *testing.T) {
	opts := NewListQueryOptions("documents",
		WithColumns("documents.id", "documents.name", "applications.email"),
	)
	query, _ := BuildListQuery(opts)

	expected := `SELECT "documents"."id", "documents"."name", "applications"."email" FROM "documents"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_WithAlias(t *testing.T) {
	opts := NewListQueryOptions("payments",
		WithColumns("amount_cents AS amount"),
	)
	query, _ := BuildListQuery(opts)

	expected := `SELECT "amount_cents" AS "amount" FROM "payments"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_CountOnly(t *testing.T) {
	opts := NewListQueryOptions("messages",
		WithCountOnly(),
		WithCondition(WhereCond("handled", Equal, false)),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT COUNT(*) FROM "messages" WHERE "handled" = $1`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 || args[0] != false {
		t.Errorf("Expected args [false], got %v", args)
	}
}

func TestBuildListQuery_WhereConditions(t *testing.T) {
	opts := NewListQueryOptions("applications",
		WithCondition(WhereCond("status", Equal, "submitted")),
		WithCondition(WhereCond("created_at", GreaterThan, "2026-01-01")),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "applications" WHERE "status" = $1 AND "created_at" > $2`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 2 || args[0] != "submitted" || args[1] != "2026-01-01" {
		t.Errorf("Expected args [submitted, 2026-01-01], got %v", args)
	}
}

func TestBuildListQuery_WhereILike(t *testing.T) {
	opts := NewListQueryOptions("universities",
		WithCondition(WhereCond("country", ILike, "%germany%")),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "universities" WHERE "country" ILIKE $1`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 || args[0] != "%germany%" {
		t.Errorf("Expected args [%%germany%%], got %v", args)
	}
}

func TestBuildListQuery_WhereIn(t *testing.T) {
	opts := NewListQueryOptions("applications",
		WithCondition(WhereCond("status", In, []string{"submitted", "in_review"})),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "applications" WHERE "status" IN ($1, $2)`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 2 || args[0] != "submitted" || args[1] != "in_review" {
		t.Errorf("Expected args [submitted, in_review], got %v", args)
	}
}

func TestBuildListQuery_WhereIn_EmptySliceSkipped(t *testing.T) {
	opts := NewListQueryOptions("applications",
		WithCondition(WhereCond("status", In, []string{})),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "applications"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WhereAny(t *testing.T) {
	opts := NewListQueryOptions("universities",
		WithCondition(WhereCond("id", Any, []string{"u1", "u2"})),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "universities" WHERE "id" = ANY (ARRAY[$1, $2])`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 2 {
		t.Errorf("Expected 2 args, got %d", len(args))
	}
}

func TestBuildListQuery_RawCondition(t *testing.T) {
	opts := NewListQueryOptions("universities",
		WithCondition(WhereRawCond("$1 = ANY (programs)", "Computer Science")),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "universities" WHERE $1 = ANY (programs)`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 || args[0] != "Computer Science" {
		t.Errorf("Expected args [Computer Science], got %v", args)
	}
}

func TestBuildListQuery_RawConditionRenumbersPlaceholders(t *testing.T) {
	opts := NewListQueryOptions("payments",
		WithCondition(WhereCond("status", Equal, "paid")),
		WithCondition(WhereRawCond("(currency = $1 OR currency = $2)", "EUR", "LKR")),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "payments" WHERE "status" = $1 AND (currency = $2 OR currency = $3)`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 3 || args[1] != "EUR" || args[2] != "LKR" {
		t.Errorf("Expected args [paid, EUR, LKR], got %v", args)
	}
}

func TestBuildListQuery_OrderLimitOffset(t *testing.T) {
	opts := NewListQueryOptions("applications",
		WithCondition(WhereCond("status", Equal, "submitted")),
		WithOrderBy("created_at", "desc"),
		WithLimit(25),
		WithOffset(50),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "applications" WHERE "status" = $1 ORDER BY "created_at" DESC LIMIT $2 OFFSET $3`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 3 || args[1] != 25 || args[2] != 50 {
		t.Errorf("Expected args [submitted, 25, 50], got %v", args)
	}
}

func TestBuildListQuery_InvalidOrderDirDropped(t *testing.T) {
	opts := NewListQueryOptions("applications",
		WithOrderBy("created_at", "DROP TABLE"),
	)
	query, _ := BuildListQuery(opts)

	expected := `SELECT * FROM "applications" ORDER BY "created_at"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_IdentifierSanitization(t *testing.T) {
	opts := NewListQueryOptions(`applications"; DROP TABLE applications; --`)
	query, _ := BuildListQuery(opts)

	// Embedded quotes must be escaped, never terminate the identifier.
	expected := `SELECT * FROM "applications""; DROP TABLE applications; --"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_NilOptions(t *testing.T) {
	query, args := BuildListQuery(nil)
	if query != "" || args != nil {
		t.Errorf("Expected empty query and nil args, got %q %v", query, args)
	}
}
