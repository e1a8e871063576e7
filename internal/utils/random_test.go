package utils

import (
	"regexp"
	"testing"
	"time"
)

func TestRemoveAccents(t *testing.T) {
	tests := map[string]string{
		"José":      "Jose",
		"Núñez":     "Nunez",
		"Ángel":     "Angel",
		"Sebastián": "Sebastian",
		"Cruz":      "Cruz",
	}
	for in, want := range tests {
		if got := RemoveAccents(in); got != want {
			t.Errorf("RemoveAccents(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateUsernameFromSpanishName(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z]+[0-9]{1,3}$`)
	for i := 0; i < 50; i++ {
		name := GenerateRandomSpanishName()
		username := GenerateUsernameFromSpanishName(name)
		if !valid.MatchString(username) {
			t.Fatalf("username %q from %q is not ascii", username, name)
		}
	}

	if got := GenerateUsernameFromSpanishName("Óscar Muñoz Díaz"); got[:6] != "omunoz" {
		t.Errorf("username = %q, want prefix omunoz", got)
	}
}

func TestGenerateRandomSubset(t *testing.T) {
	arr := []string{"a", "b", "c"}
	for i := 0; i < 50; i++ {
		subset := GenerateRandomSubset(arr)
		if len(subset) > len(arr) {
			t.Fatalf("subset %v larger than input", subset)
		}
		seen := make(map[string]bool)
		for _, v := range subset {
			if seen[v] {
				t.Fatalf("duplicate %q in %v", v, subset)
			}
			seen[v] = true
		}
	}
	if arr[0] != "a" || arr[1] != "b" || arr[2] != "c" {
		t.Errorf("input mutated: %v", arr)
	}
}

func TestGenerateRandomOperation(t *testing.T) {
	from := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		op := GenerateRandomOperation(3, from, 2)
		if op.ScheduledTime.Before(from) || !op.ScheduledTime.Before(from.Add(48*time.Hour)) {
			t.Fatalf("scheduled time %v out of range", op.ScheduledTime)
		}
		if !op.Type.Valid() || op.PassengerCount < 50 || *op.StationID != 3 {
			t.Fatalf("operation = %+v", op)
		}
	}
}
