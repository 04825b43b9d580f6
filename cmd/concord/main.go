package main

import (
	"flag"
	"fmt"

	"github.com/go-concord/concord/internal/bootstrap"
	"github.com/go-concord/concord/pkg/version"
)

var (
	configFile  string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. -conf ./conf.d/config.toml")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(string(version.GetVersion().Json()))
		return
	}

	app, cleanup, err := bootstrap.Bootstrap(configFile, initApp)
	if err != nil {
		panic(err)
	}

	bootstrap.Run(app, cleanup)
}
