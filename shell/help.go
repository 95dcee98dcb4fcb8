package shell

import (
	"embed"
	"errors"
	"strings"
)

//go:embed helptext
var helptext embed.FS

func usage(mode string) (*Response, error) {
	dat, err := helptext.ReadFile("helptext/usage-" + mode + ".txt")
	if err != nil {
		return nil, err
	}
	return msg(string(dat)), nil
}

func usageTopic(topic string) (*Response, error) {
	if strings.ContainsAny(topic, "/.") {
		return nil, errors.New("There is no help text for the topic " + topic)
	}
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return nil, errors.New("There is no help text for the topic " + topic)
	}
	return msg(string(dat)), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		r, err := usage("standard")
		if err != nil {
			return nil, err
		}
		if sc.gitVersion != "" {
			r.message = "camelup " + sc.gitVersion + "\n\n" + r.message
		}
		return r, nil
	}
	return usageTopic(cmd.args[0])
}
