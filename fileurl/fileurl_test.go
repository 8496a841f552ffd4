package fileurl

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPath(t *testing.T) {
	path, err := ToPath("file:///opt/app/addon.node")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "/opt/app/addon.node", path)

	path, err = ToPath("file://localhost/opt/app/addon.node")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "/opt/app/addon.node", path)

	path, err = ToPath("file:///opt/app/hello%20world.node")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "/opt/app/hello world.node", path)
}

func TestToPathRoundTrip(t *testing.T) {
	path, err := ToPath("file:///opt/app/addon.node")
	if err != nil {
		t.Fatal(err)
	}

	// rebuilding a file: URL from the result converges on the same path
	u := url.URL{Scheme: "file", Path: path}
	again, err := ToPath(u.String())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, path, again)
}

func TestToPathSchemeNotFile(t *testing.T) {
	_, err := ToPath("http://x/y")
	assert.ErrorIs(t, err, ErrSchemeNotFile)

	_, err = ToPath("relative/path.node")
	assert.ErrorIs(t, err, ErrSchemeNotFile)
}

func TestToPathParseFailure(t *testing.T) {
	_, err := ToPath("file://\x7f /bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchemeNotFile)
}

func TestToPathNotFilePath(t *testing.T) {
	_, err := ToPath("file://example.com/opt/app/addon.node")
	assert.ErrorIs(t, err, ErrNotFilePath)

	_, err = ToPath("file:")
	assert.ErrorIs(t, err, ErrNotFilePath)
}

func TestToPathNotUTF8(t *testing.T) {
	_, err := ToPath("file:///opt/%ff/addon.node")
	assert.ErrorIs(t, err, ErrPathNotUTF8)
}
