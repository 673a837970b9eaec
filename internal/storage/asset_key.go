package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"
)

// assetKey builds assets/<scope>/<yyyy>/<mm>/<digest>-<stem>.<ext>. The
// month directory comes from now, so the same bytes uploaded in another
// month get a second key.
func assetKey(scope, fileName string, data []byte, now time.Time) string {
	scope = cleanSegment(scope)
	if scope == "" {
		scope = "shared"
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])[:16]

	ext := extensionOf(fileName)
	name := digest
	if stem := cleanSegment(strings.ReplaceAll(strings.TrimSuffix(path.Base(fileName), path.Ext(fileName)), " ", "-")); stem != "" {
		name = digest + "-" + stem
	}

	now = now.UTC()
	return path.Join("assets", scope, now.Format("2006"), now.Format("01"), name+"."+ext)
}

// cleanSegment lowercases value and keeps [a-z0-9-_] only.
func cleanSegment(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_")
}

func extensionOf(fileName string) string {
	ext := cleanSegment(strings.TrimPrefix(path.Ext(strings.TrimSpace(fileName)), "."))
	if ext == "" {
		return "bin"
	}
	return ext
}

// contentTypeFor prefers the declared type, then the extension, then sniffing.
func contentTypeFor(declared, fileName string, data []byte) string {
	if declared = strings.TrimSpace(declared); declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension("." + extensionOf(fileName)); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}

func publicURL(base, key string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "/" + key
	}
	return base + "/" + key
}

func joinPrefix(prefix, key string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}
