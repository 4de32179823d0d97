package logger

import "testing"

func TestOperationFromSQL(t *testing.T) {
	cases := map[string]string{
		"SELECT * FROM subscriptions":                         "SELECT",
		"  insert into subscriptions (user_id) values (1)":    "INSERT",
		"WITH active AS (SELECT 1) DELETE FROM subscriptions": "SELECT",
		"":                     "UNKNOWN",
		"PRAGMA foreign_keys": "UNKNOWN",
	}
	for sql, want := range cases {
		if got := operationFromSQL(sql); got != want {
			t.Fatalf("operationFromSQL(%q) = %q, want %q", sql, got, want)
		}
	}
}
