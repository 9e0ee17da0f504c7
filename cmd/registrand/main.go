package main

import (
	"fmt"

	"github.com/spf13/viper"
	"registrand/engine/actors"
	"registrand/engine/library"
	"registrand/messaging/nostrchat"
	"registrand/state/registry"
)

func main() {
	// Various aspects of this application require global and local settings. To keep things
	// clean and tidy we put these settings in a Viper configuration.
	conf := viper.New()
	actors.InitConfig(conf)
	// make the config accessible globally
	actors.SetConfig(conf)
	actors.SetTerminateChan(make(chan struct{}))

	manager := registry.NewManager()
	chatEndpoint := manager.RegisterComms(library.Chat)
	go manager.Start()
	nostrchat.Start(chatEndpoint)

	interrupt := make(chan struct{})
	go cliListener(interrupt)
	<-interrupt

	actors.Shutdown()
	actors.GetWaitGroup().Wait()
	fmt.Println(library.Bye())
}
