package netrc

import (
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/pixiretro/pxpack/log"
)

// BasicAuth carries the credentials of one netrc machine entry.
type BasicAuth struct {
	User     string
	Password string
}

type netrc struct {
	machines map[string]BasicAuth
}

var usersNetrcFile = netrc{
	machines: make(map[string]BasicAuth),
}

func init() {
	homeDir, err := homedir.Dir()
	if err != nil {
		log.Debug("Unable to find the home directory. netrc not parsed.\n")
		return
	}

	netrcPath := path.Join(homeDir, ".netrc")
	netrcContents, err := os.ReadFile(netrcPath)
	if err != nil {
		log.Debug("No netrc file at %q.\n", netrcPath)
		return
	}
	usersNetrcFile.parse(string(netrcContents))
}

func (n *netrc) parse(contents string) {
	currentMachine := ""

	saveUsername := func(machine, login string) {
		if machine != "" {
			entry := n.machines[machine]
			entry.User = login
			n.machines[machine] = entry
		}
	}

	savePassword := func(machine, passwd string) {
		if machine != "" {
			entry := n.machines[machine]
			entry.Password = passwd
			n.machines[machine] = entry
		}
	}

	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "machine") {
			currentMachine = strings.TrimSpace(strings.TrimPrefix(line, "machine"))
		} else if strings.HasPrefix(line, "login") {
			saveUsername(currentMachine, strings.TrimSpace(strings.TrimPrefix(line, "login")))
		} else if strings.HasPrefix(line, "password") {
			savePassword(currentMachine, strings.TrimSpace(strings.TrimPrefix(line, "password")))
		}
	}
}

// GetAuthForUrl returns the credentials of the machine entry matching the
// url's host, or nil if the user has none configured.
func GetAuthForUrl(urlString string) *BasicAuth {
	url, err := url.Parse(urlString)
	if err != nil {
		log.Warning("Invalid URL %q.\n", urlString)
		return nil
	}

	if auth, ok := usersNetrcFile.machines[url.Hostname()]; ok {
		return &auth
	}

	return nil
}
