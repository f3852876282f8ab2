package intake

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/blinkread/blink/internal/engine"
)

// maxFetchBytes caps remote downloads at 50 MB.
const maxFetchBytes = 50 << 20

// Fetch errors.
var (
	ErrUnsupportedScheme = errors.New("only http and https URLs are supported")
	ErrBlockedHost       = errors.New("URL resolves to a private or local address")
	ErrTooLarge          = errors.New("remote document exceeds the 50 MB limit")
)

var fetchClient = &http.Client{
	Timeout: 30 * time.Second,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return errors.New("too many redirects")
		}
		return checkHost(req.URL)
	},
}

// FetchChapters downloads a document and extracts chapters from it. The
// format is picked by URL extension first, then by Content-Type.
func FetchChapters(rawURL string) ([]engine.Chapter, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrUnsupportedScheme
	}
	if err := checkHost(u); err != nil {
		return nil, err
	}

	resp, err := fetchClient.Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if len(data) > maxFetchBytes {
		return nil, ErrTooLarge
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if !registeredExt(ext) {
		ext = extFromContentType(resp.Header.Get("Content-Type"))
	}
	if !registeredExt(ext) {
		return FromText(decodeText(data))
	}

	// Registered sources read from disk; stage the download.
	tmp, err := os.CreateTemp("", "blink-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	return FromFile(tmp.Name())
}

// checkHost refuses URLs whose host resolves to a non-public address.
func checkHost(u *url.URL) error {
	host := u.Hostname()
	if host == "" {
		return ErrBlockedHost
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return fmt.Errorf("cannot resolve %s: %w", host, err)
	}
	for _, ip := range ips {
		if !publicIP(ip) {
			return ErrBlockedHost
		}
	}
	return nil
}

// publicIP reports whether ip is routable from the open internet.
func publicIP(ip net.IP) bool {
	return !(ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified())
}

func registeredExt(ext string) bool {
	for _, s := range registry {
		for _, e := range s.Extensions() {
			if ext == e {
				return true
			}
		}
	}
	return false
}

func extFromContentType(ct string) string {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/epub+zip":
		return ".epub"
	case "text/markdown":
		return ".md"
	default:
		return ""
	}
}
