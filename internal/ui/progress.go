package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"ldptw/internal/fetch"
)

// DownloadBar shows archive download progress on stderr
type DownloadBar struct {
	bar *progressbar.ProgressBar
}

var _ fetch.Progress = (*DownloadBar)(nil)

// NewDownloadBar creates a download bar with an unknown total
func NewDownloadBar(name string) *DownloadBar {
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription(color.CyanString("Downloading ")+color.YellowString(name)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionShowBytes(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &DownloadBar{bar: bar}
}

// DownloadProgress is a fetch.ProgressFactory backed by DownloadBar
func DownloadProgress(name string) fetch.Progress {
	return NewDownloadBar(name)
}

// SetTotal sets the expected size once the response headers are known
func (d *DownloadBar) SetTotal(total int64) {
	if total > 0 {
		d.bar.ChangeMax64(total)
	}
}

// Add advances the bar by n bytes
func (d *DownloadBar) Add(n int) {
	_ = d.bar.Add(n)
}

// Finish completes the bar
func (d *DownloadBar) Finish() {
	_ = d.bar.Finish()
}
