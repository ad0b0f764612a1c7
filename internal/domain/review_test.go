package domain

import "testing"

func TestRatingValid(t *testing.T) {
	cases := []struct {
		rating int
		want   bool
	}{
		{0, false},
		{1, true},
		{3, true},
		{5, true},
		{6, false},
		{-1, false},
	}
	for _, tc := range cases {
		r := Review{Rating: tc.rating}
		if got := r.RatingValid(); got != tc.want {
			t.Errorf("RatingValid(%d) = %v, want %v", tc.rating, got, tc.want)
		}
	}
}

func TestUserDisplayName(t *testing.T) {
	cases := []struct {
		name string
		user User
		want string
	}{
		{"full name", User{FirstName: "Ivan", LastName: "Petrov", Login: "ipetrov"}, "Petrov Ivan"},
		{"last only", User{LastName: "Petrov", Login: "ipetrov"}, "Petrov"},
		{"first only", User{FirstName: "Ivan", Login: "ipetrov"}, "Ivan"},
		{"login fallback", User{Login: "ipetrov"}, "ipetrov"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.DisplayName(); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
