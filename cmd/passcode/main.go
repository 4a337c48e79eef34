// Command passcode prints the bcrypt hash of a device passcode for the
// auth.passcode_hash config value.
//
//	passcode -p 2468
//	echo 2468 | passcode
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sakif/brightday/internal/auth"
)

func main() {
	passcode := flag.String("p", "", "passcode to hash (read from stdin when empty)")
	cost := flag.Int("cost", auth.DefaultCost, "bcrypt cost")
	flag.Parse()

	value := *passcode
	if value == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "passcode: reading stdin:", err)
			os.Exit(1)
		}
		value = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.NewPasscodeService(*cost).Hash(value)
	if err != nil {
		fmt.Fprintln(os.Stderr, "passcode:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
