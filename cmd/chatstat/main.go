// chatstat analyses a chat group's message history: word and category
// frequencies, loudness, naughtiness, reactions and daily activity.
package main

import (
	"os"

	"github.com/corey/chatstat/cmd/chatstat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
