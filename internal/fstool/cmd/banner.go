package cmd

import (
	"fmt"

	"github.com/jmrbcu/fstool/pkg/version"
)

const bannerText = `
   __     _              _
  / _|___| |_ ___   ___ | |
 | |_/ __| __/ _ \ / _ \| |
 |  _\__ \ || (_) | (_) | |
 |_| |___/\__\___/ \___/|_|

    Extensible File Toolbox
`

// Banner returns the CLI banner string.
func Banner() string {
	return fmt.Sprintf("%s\n  Version: %s\n", bannerText, version.Get().String())
}
