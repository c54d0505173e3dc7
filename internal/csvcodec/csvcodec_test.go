package csvcodec

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"redirector/internal/domain/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []models.RedirectRecord
		wantErr error
	}{
		{
			name:  "quoted fields",
			input: "Old URL,New URL\n\"/old\",\"/new\"",
			want:  []models.RedirectRecord{{Path: "/old", RedirectTo: "/new"}},
		},
		{
			name:  "empty target means gone",
			input: "Old URL,New URL\n\"/old\",",
			want:  []models.RedirectRecord{{Path: "/old", RedirectTo: ""}},
		},
		{
			name:  "bare fields and blank lines",
			input: "Old URL,New URL\n\n/a,/b\n   \n/c,https://example.com/c\n",
			want: []models.RedirectRecord{
				{Path: "/a", RedirectTo: "/b"},
				{Path: "/c", RedirectTo: "https://example.com/c"},
			},
		},
		{
			name:  "windows line endings",
			input: "Old URL,New URL\r\n/a,/b\r\n/c,/d\r\n",
			want: []models.RedirectRecord{
				{Path: "/a", RedirectTo: "/b"},
				{Path: "/c", RedirectTo: "/d"},
			},
		},
		{
			name:  "doubled quotes and commas inside quotes",
			input: "Old URL,New URL\n\"/a,b\",\"/say \"\"hi\"\"\"",
			want:  []models.RedirectRecord{{Path: "/a,b", RedirectTo: `/say "hi"`}},
		},
		{
			name:  "quote inside a bare field does not join lines",
			input: "Old URL,New URL\n/a\"b,/x\n/c,/d\n/e,/f\n",
			want: []models.RedirectRecord{
				{Path: `/a"b`, RedirectTo: "/x"},
				{Path: "/c", RedirectTo: "/d"},
				{Path: "/e", RedirectTo: "/f"},
			},
		},
		{
			name:  "newline inside quoted field",
			input: "Old URL,New URL\n\"/a\",\"/line\nbreak\"\n/c,/d",
			want: []models.RedirectRecord{
				{Path: "/a", RedirectTo: "/line\nbreak"},
				{Path: "/c", RedirectTo: "/d"},
			},
		},
		{
			name:  "unterminated quote falls back to plain lines",
			input: "Old URL,New URL\n/a,\"/x\n/c,/d\n",
			want: []models.RedirectRecord{
				{Path: "/a", RedirectTo: `"/x`},
				{Path: "/c", RedirectTo: "/d"},
			},
		},
		{
			name:  "line without comma is skipped",
			input: "Old URL,New URL\n/lonely\n/a,/b",
			want:  []models.RedirectRecord{{Path: "/a", RedirectTo: "/b"}},
		},
		{
			name:  "empty path is skipped",
			input: "Old URL,New URL\n ,/b\n/a,/b",
			want:  []models.RedirectRecord{{Path: "/a", RedirectTo: "/b"}},
		},
		{
			name:  "extra columns are ignored",
			input: "Old URL,New URL\n/a,/b,whatever",
			want:  []models.RedirectRecord{{Path: "/a", RedirectTo: "/b"}},
		},
		{
			name:  "header is always discarded",
			input: "/x,/y\n/a,/b",
			want:  []models.RedirectRecord{{Path: "/a", RedirectTo: "/b"}},
		},
		{
			name:    "header only",
			input:   "Old URL,New URL\n",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: ErrEmptyInput,
		},
		{
			name:    "no usable rows",
			input:   "Old URL,New URL\nnothing here\n,/b",
			wantErr: ErrNoValidRecords,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.ErrorIs(t, err, ErrFormat)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	records := []models.RedirectRecord{
		{Path: "/plain", RedirectTo: "/target"},
		{Path: "/gone", RedirectTo: ""},
		{Path: "/a,b", RedirectTo: `/q"x`},
		{Path: "/multi\nline", RedirectTo: "https://example.com"},
	}

	text, filename := Encode(records, "selected", now)

	want := strings.Join([]string{
		"Old URL,New URL",
		"/plain,/target",
		"/gone,",
		`"/a,b","/q""x"`,
		"\"/multi\nline\",https://example.com",
	}, "\n")
	assert.Equal(t, want, text)
	assert.Equal(t, "redirects-selected-2024-03-10.csv", filename)
}

func TestEncodeEmpty(t *testing.T) {
	text, _ := Encode(nil, "all", time.Now())
	assert.Equal(t, Header, text)
}

func TestRoundTrip(t *testing.T) {
	const alphabet = "abcXYZ019/-_.,\"\n ?=&"
	rnd := rand.New(rand.NewSource(7))

	randomText := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		// the decoder trims field edges, keep them significant
		return strings.TrimSpace(string(b))
	}

	for i := 0; i < 200; i++ {
		records := make([]models.RedirectRecord, 1+rnd.Intn(8))
		for j := range records {
			target := ""
			switch rnd.Intn(3) {
			case 0:
				target = "/" + randomText(rnd.Intn(12))
			case 1:
				target = "https://example.com/" + randomText(rnd.Intn(12))
			}
			records[j] = models.RedirectRecord{Path: "/" + randomText(1+rnd.Intn(12)), RedirectTo: target}
		}

		text, _ := Encode(records, "x", time.Now())
		got, err := Decode(text)
		require.NoError(t, err, "input:\n%s", text)
		if diff := cmp.Diff(records, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s\ninput:\n%s", diff, text)
		}
	}
}

func TestCheckContentType(t *testing.T) {
	tests := []struct {
		contentType string
		ok          bool
	}{
		{contentType: "text/csv", ok: true},
		{contentType: "text/csv; charset=utf-8", ok: true},
		{contentType: "application/vnd.ms-excel", ok: false},
		{contentType: "text/plain", ok: false},
		{contentType: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			err := CheckContentType(tt.contentType)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}
