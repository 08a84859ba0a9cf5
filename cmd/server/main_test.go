package main

import "testing"

func TestPropertiesPathFromArgs(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"default", []string{"-address", ":25566"}, "server.properties"},
		{"space form", []string{"-properties", "custom.properties", "-seed", "1"}, "custom.properties"},
		{"equals form", []string{"--properties=custom.properties"}, "custom.properties"},
		{"no args", nil, "server.properties"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := propertiesPathFromArgs(tc.args); got != tc.want {
				t.Errorf("propertiesPathFromArgs(%v) = %q, want %q", tc.args, got, tc.want)
			}
		})
	}
}
