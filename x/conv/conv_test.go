package conv

import "testing"

func TestAppendUint(t *testing.T) {
	cases := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{42, "42"},
		{255, "255"},
		{18446744073709551615, "18446744073709551615"},
	}
	for _, c := range cases {
		if got := string(AppendUint(nil, c.n)); got != c.want {
			t.Fatalf("AppendUint(%d) = %q want %q", c.n, got, c.want)
		}
	}
	if got := string(AppendUint([]byte("n="), 12)); got != "n=12" {
		t.Fatalf("append onto prefix: %q", got)
	}
}
