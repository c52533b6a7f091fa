package service

import "testing"

func TestCleanImagePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"uploads/a.png", "a.png"},
		{"/uploads/a.png", "a.png"},
		{"a.png", "a.png"},
		{"img/uploads/a.png", "img/uploads/a.png"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanImagePath(tt.in); got != tt.want {
			t.Fatalf("CleanImagePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImageURL(t *testing.T) {
	svc := &Service{uploadsURL: "https://cdn.example.com/uploads/"}

	tests := []struct {
		in   string
		want *string
	}{
		{"uploads/a.png", strPtr("https://cdn.example.com/uploads/a.png")},
		{"/uploads/b.jpg", strPtr("https://cdn.example.com/uploads/b.jpg")},
		{"c.webp", strPtr("https://cdn.example.com/uploads/c.webp")},
		{"data:image/png;base64,AAAA", strPtr("data:image/png;base64,AAAA")},
		{"https://img.example.com/x.png", strPtr("https://img.example.com/x.png")},
		{"", nil},
		{"uploads/", nil},
	}

	for _, tt := range tests {
		got := svc.ImageURL(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Fatalf("ImageURL(%q) = %q, want nil", tt.in, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Fatalf("ImageURL(%q) = %v, want %q", tt.in, got, *tt.want)
		}
	}
}

func strPtr(s string) *string { return &s }
