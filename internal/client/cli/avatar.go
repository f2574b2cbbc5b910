package cli

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// maxAvatarBytes caps avatar files so a stray path cannot balloon the
// account record.
const maxAvatarBytes = 256 * 1024

// EncodeAvatar reads an image file and returns it as a data-URI string
// suitable for embedding in an account record.
func EncodeAvatar(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) > maxAvatarBytes {
		return "", fmt.Errorf("avatar file too large: %d bytes (max %d)", len(data), maxAvatarBytes)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("not an image file: detected %s", contentType)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
