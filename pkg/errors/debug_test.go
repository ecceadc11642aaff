package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDumpRemoteDetails(t *testing.T) {
	err := New(CodeRemote, "Not found.").WithDetails(RemoteDetails{Status: 404, Method: "GET", Path: "/api/products/9/"})
	d := Dump(fmt.Errorf("load product: %w", err))

	if d.Code != CodeRemote {
		t.Fatalf("expected remote code, got %q", d.Code)
	}
	if d.RemoteStatus != 404 || d.RemotePath != "/api/products/9/" || d.RemoteMethod != "GET" {
		t.Fatalf("unexpected remote fields %+v", d)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(d.Chain))
	}

	fields := d.Fields()
	if fields["remote_status"] != 404 {
		t.Fatalf("expected remote_status field, got %v", fields["remote_status"])
	}
	if _, ok := fields["pg_code"]; ok {
		t.Fatalf("pg fields should be omitted when absent")
	}
}

func TestDumpPostgresError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "client_states_pkey", TableName: "client_states", Message: "duplicate key"}
	d := Dump(Wrap(CodeInternal, pgErr, "session store write"))

	if d.PGCode != "23505" || d.PGConstraint != "client_states_pkey" || d.PGTable != "client_states" {
		t.Fatalf("unexpected pg fields %+v", d)
	}
	if d.Fields()["pg_code"] != "23505" {
		t.Fatalf("expected pg_code in fields")
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || d.Chain != nil {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}
