package main

import "testing"

func TestViolates(t *testing.T) {
	cases := []struct {
		layer  string
		path   string
		reject bool
	}{
		{"domain", "strings", false},
		{"domain", servicePath + "/domain/errors", false},
		{"domain", servicePath + "/ports", true},
		{"domain", "github.com/google/uuid", true},
		{"application", servicePath + "/ports", false},
		{"application", servicePath + "/adapters/memory", true},
		{"application", modulePath + "/internal/shared/events", true},
		{"application", "github.com/robfig/cron/v3", true},
		{"transport", "github.com/go-playground/validator/v10", false},
		{"transport", servicePath + "/domain/entities", false},
		{"transport", servicePath + "/application/commands", true},
		{"transport", modulePath + "/internal/platform/config", true},
	}
	for _, tc := range cases {
		got := violates(tc.path, tc.layer, rules[tc.layer]) != ""
		if got != tc.reject {
			t.Fatalf("%s importing %s: expected reject=%v", tc.layer, tc.path, tc.reject)
		}
	}
}
