package infra

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// chain name -> trustwallet assets directory
var chainAssetDirs = map[string]string{
	"ETH":  "ethereum",
	"BSC":  "smartchain",
	"BASE": "base",
	"SOL":  "solana",
}

// IconDownloader fetches and caches token logos for the visible window.
type IconDownloader struct {
	basePath string
	client   *http.Client
}

// NewIconDownloader creates a new IconDownloader
func NewIconDownloader() (*IconDownloader, error) {
	path, err := getAssetsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assets path: %w", err)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create assets directory: %w", err)
	}

	// Optimize HTTP Transport to prevent connection leaks
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 100
	transport.MaxConnsPerHost = 10
	transport.IdleConnTimeout = 30 * time.Second

	return &IconDownloader{
		basePath: path,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}, nil
}

// DownloadIcon downloads the logo for a token if it is not cached yet and
// returns the local file path. Logos are resized to 32x32 pixels.
func (d *IconDownloader) DownloadIcon(chain, tokenAddress string) (string, error) {
	// Security: addresses become file names, reject anything path-like
	addr := sanitizeAddress(tokenAddress)
	if addr == "" {
		return "", fmt.Errorf("invalid token address: %s", tokenAddress)
	}

	assetDir, ok := chainAssetDirs[strings.ToUpper(chain)]
	if !ok {
		return "", fmt.Errorf("no asset source for chain: %s", chain)
	}

	fileName := strings.ToLower(addr) + ".png"
	filePath := filepath.Join(d.basePath, assetDir, fileName)

	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil // Cache hit
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", err
	}

	url := fmt.Sprintf(
		"https://raw.githubusercontent.com/trustwallet/assets/master/blockchains/%s/assets/%s/logo.png",
		assetDir, addr,
	)

	resp, err := d.client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	srcImg, err := imaging.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	resizedImg := imaging.Resize(srcImg, 32, 32, imaging.Lanczos)

	if err := imaging.Save(resizedImg, filePath); err != nil {
		return "", fmt.Errorf("failed to save resized image: %w", err)
	}

	return filePath, nil
}

// IconPath returns the local path a token's logo would be cached at.
func (d *IconDownloader) IconPath(chain, tokenAddress string) string {
	assetDir := chainAssetDirs[strings.ToUpper(chain)]
	return filepath.Join(d.basePath, assetDir, strings.ToLower(tokenAddress)+".png")
}

func sanitizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	for _, r := range addr {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return addr
}

func getAssetsPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "ScannerGo", "assets", "icons"), nil
}
