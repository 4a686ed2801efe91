// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rowset

import (
	"database/sql"
	"reflect"
	"testing"

	_ "modernc.org/sqlite"
)

func TestRow_GetAndKeys(t *testing.T) {
	r := Row{{Key: "b", Value: 1}, {Key: "a", Value: "x"}}

	if got := r.Keys(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Expected keys in insertion order, got %v", got)
	}
	if v, ok := r.Get("a"); !ok || v != "x" {
		t.Errorf("Expected a=x, got %v (%v)", v, ok)
	}
	if _, ok := r.Get("A"); ok {
		t.Error("Get should be case-sensitive")
	}
	if v, ok := r.GetFold("A"); !ok || v != "x" {
		t.Errorf("GetFold should ignore case, got %v (%v)", v, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Expected missing key to report false")
	}
}

func TestRow_CloneIsIndependent(t *testing.T) {
	r := Row{{Key: "a", Value: "1"}}
	c := r.Clone()
	c[0].Value = "2"

	if v, _ := r.Get("a"); v != "1" {
		t.Errorf("Clone shares storage with the original: %v", v)
	}
}

func TestScan(t *testing.T) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(`
		CREATE TABLE t (z TEXT, a INTEGER, m REAL, n TEXT);
		INSERT INTO t VALUES ('first', 1, 1.5, NULL), ('second', 2, 2.5, 'x');
	`); err != nil {
		t.Fatal(err)
	}

	rows, err := conn.Query(`SELECT z, a, m, n FROM t ORDER BY a`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	got, err := Scan(rows)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(got))
	}

	if keys := got[0].Keys(); !reflect.DeepEqual(keys, []string{"z", "a", "m", "n"}) {
		t.Errorf("Expected column order preserved, got %v", keys)
	}
	if v, _ := got[0].Get("z"); v != "first" {
		t.Errorf("Expected text as string, got %#v", v)
	}
	if v, _ := got[1].Get("a"); v != int64(2) {
		t.Errorf("Expected integer as int64, got %#v", v)
	}
	if v, _ := got[0].Get("n"); v != nil {
		t.Errorf("Expected NULL as nil, got %#v", v)
	}
}

func TestScan_Empty(t *testing.T) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	rows, err := conn.Query(`SELECT 1 AS x WHERE 1 = 0`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	got, err := Scan(rows)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
}
