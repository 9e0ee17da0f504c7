//go:build !darwin

package nostrchat

func sleeper(listen chan bool) {}
