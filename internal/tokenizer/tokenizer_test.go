package tokenizer

import (
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple sentence",
			input:    "Hello world this is a test",
			expected: []string{"Hello", "world", "this", "is", "a", "test"},
		},
		{
			name:     "multiple spaces",
			input:    "Hello    world     test",
			expected: []string{"Hello", "world", "test"},
		},
		{
			name:     "newlines and tabs",
			input:    "Hello\nworld\ttest",
			expected: []string{"Hello", "world", "test"},
		},
		{
			name:     "windows line endings",
			input:    "Hello\r\nworld\rtest",
			expected: []string{"Hello", "world", "test"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "whitespace only",
			input:    "   \n\t  ",
			expected: []string{},
		},
		{
			name:     "url kept whole",
			input:    "Visit https://example.com/x?y=1 now",
			expected: []string{"Visit", "https://example.com/x?y=1", "now"},
		},
		{
			name:     "plain http url",
			input:    "see http://example.org/a/b today",
			expected: []string{"see", "http://example.org/a/b", "today"},
		},
		{
			name:     "email kept whole",
			input:    "Email me at a.b@example.co for info",
			expected: []string{"Email", "me", "at", "a.b@example.co", "for", "info"},
		},
		{
			name:     "currency kept whole",
			input:    "Price: $1,234.56 total",
			expected: []string{"Price:", "$1,234.56", "total"},
		},
		{
			name:     "percentage kept whole",
			input:    "up 12.5% today",
			expected: []string{"up", "12.5%", "today"},
		},
		{
			name:     "phone number kept whole",
			input:    "Call +1 (555) 123-4567 now",
			expected: []string{"Call", "+1 (555) 123-4567", "now"},
		},
		{
			name:     "em-dash splits without spaces",
			input:    "word—word",
			expected: []string{"word", "word"},
		},
		{
			name:     "em-dash with spaces",
			input:    "first — second",
			expected: []string{"first", "second"},
		},
		{
			name:     "ordinary hyphen stays attached",
			input:    "a well-known fact",
			expected: []string{"a", "well-known", "fact"},
		},
		{
			name:     "punctuation around protected token",
			input:    "(see https://example.com) please",
			expected: []string{"(see", "https://example.com)", "please"},
		},
		{
			name:     "em-dash before url still splits",
			input:    "link—https://example.com done",
			expected: []string{"link", "https://example.com", "done"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Tokenize(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("Tokenize() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("Tokenize()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestTokenizeMultipleProtectedClasses(t *testing.T) {
	got := Tokenize("Pay $5.00 to a@b.io via https://pay.example.com")
	want := []string{"Pay", "$5.00", "to", "a@b.io", "via", "https://pay.example.com"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"spaces", "   ", 0},
		{"three words", "one two three", 3},
		{"url counts once", "go to https://example.com/a b", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.input); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestORPIndex(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		expected int
	}{
		{"empty string", "", 0},
		{"single char", "a", 0},
		{"two chars", "ab", 1},
		{"five chars", "abcde", 1},
		{"six chars", "abcdef", 2},
		{"nine chars", "abcdefghi", 3},
		{"twelve chars", "abcdefghijkl", 4},
		{"unicode word", "héllo", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ORPIndex(tt.word); got != tt.expected {
				t.Errorf("ORPIndex(%q) = %d, want %d", tt.word, got, tt.expected)
			}
		})
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := strings.Repeat("The quick brown fox visits https://example.com and pays $1,234.56 — often. ", 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Tokenize(text)
	}
}
