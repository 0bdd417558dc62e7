package main

import "github.com/LVRodrigues/fpa-management/cmd/fpa/cmd"

func main() {
	cmd.Execute()
}
