package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\arjun\lab 1.docx`, "lab_1.docx"},
		{"..", "upload"},
		{"", "upload"},
		{"résumé final.pdf", "r_sum_final.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"plain", "https://f002.backblazeb2.com", "https://f002.backblazeb2.com/file/portal-uploads/submissions/STU001/3/lab.pdf"},
		{"trailing slash", "https://f002.backblazeb2.com/", "https://f002.backblazeb2.com/file/portal-uploads/submissions/STU001/3/lab.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, objectURL(tt.baseURL, "portal-uploads", "submissions/STU001/3/lab.pdf"))
		})
	}
}

func TestSubmissionKey(t *testing.T) {
	a := SubmissionKey("STU001", 3, "lab.pdf")
	b := SubmissionKey("STU001", 3, "lab.pdf")

	assert.True(t, strings.HasPrefix(a, "submissions/STU001/3/"))
	assert.True(t, strings.HasSuffix(a, "-lab.pdf"))
	assert.NotEqual(t, a, b)
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStorage(root, "/uploads/")
	require.NoError(t, err)

	url, err := store.Save(ctx, "submissions/STU001/3/abc-lab.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/submissions/STU001/3/abc-lab.pdf", url)

	data, err := os.ReadFile(filepath.Join(root, "submissions", "STU001", "3", "abc-lab.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	t.Run("keys cannot escape the root", func(t *testing.T) {
		_, err := store.Save(ctx, "../../outside.txt", strings.NewReader("x"))
		require.NoError(t, err)
		_, statErr := os.Stat(filepath.Join(root, "outside.txt"))
		assert.NoError(t, statErr)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "submissions/STU001/3/abc-lab.pdf"))
		require.NoError(t, store.Delete(ctx, "submissions/STU001/3/abc-lab.pdf"))
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := store.Save(ctx, "", strings.NewReader("x"))
		assert.Error(t, err)
	})
}
