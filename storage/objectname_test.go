package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCSObjectName(t *testing.T) {
	g := &GCS{bucket: "my-bucket"}

	// path style, the URL shape Put produces
	obj, err := g.ObjectName("https://storage.googleapis.com/my-bucket/products/polo/1.png")
	require.NoError(t, err)
	assert.Equal(t, "products/polo/1.png", obj)

	// virtual-host style
	obj, err = g.ObjectName("https://my-bucket.storage.googleapis.com/products/polo/1.png")
	require.NoError(t, err)
	assert.Equal(t, "products/polo/1.png", obj)

	_, err = g.ObjectName("https://storage.googleapis.com/other-bucket/products/polo/1.png")
	assert.Error(t, err)
	_, err = g.ObjectName("https://cdn.example.net/my-bucket/products/polo/1.png")
	assert.Error(t, err)
	_, err = g.ObjectName("https://my-bucket.storage.googleapis.com/")
	assert.Error(t, err)
}

func TestR2ObjectName(t *testing.T) {
	r := &R2{bucket: "assets", publicDomain: "https://cdn.example.net"}

	obj, err := r.ObjectName("https://cdn.example.net/assets/quote-attachments/1-x.pdf")
	require.NoError(t, err)
	assert.Equal(t, "quote-attachments/1-x.pdf", obj)

	_, err = r.ObjectName("https://cdn.example.net/other/quote-attachments/1-x.pdf")
	assert.Error(t, err)
	_, err = r.ObjectName("https://cdn.example.net/assets/")
	assert.Error(t, err)
}

func TestCredentialsPath(t *testing.T) {
	abs := filepath.Join(string(filepath.Separator), "etc", "gcs", "creds.json")
	got, err := credentialsPath(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = credentialsPath("creds.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "creds.json"), got)
}
