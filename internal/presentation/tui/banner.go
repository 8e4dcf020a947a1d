package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the espalier ASCII banner with the given version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Lime gradient, darkening toward the roots.
	s1 := termenv.String("                           _  _").Foreground(p.Color("#bef264"))
	s2 := termenv.String("   ___  ___  _ __    __ _ | |(_)  ___  _ __").Foreground(p.Color("#a3e635"))
	s3 := termenv.String("  / _ \\/ __|| '_ \\  / _` || || | / _ \\| '__|").Foreground(p.Color("#84cc16"))
	s4 := termenv.String(" |  __/\\__ \\| |_) || (_| || || ||  __/| |").Foreground(p.Color("#65a30d"))
	s5 := termenv.String("  \\___||___/| .__/  \\__,_||_||_| \\___||_|").Foreground(p.Color("#4d7c0f"))
	s6 := termenv.String("            |_|").Foreground(p.Color("#3f6212"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	tag := "  articy:draft to Ren'Py " + strings.TrimSpace(version)
	fmt.Println(termenv.String(tag).Foreground(p.Color("#a1a1aa")).Italic())
	fmt.Println()
}
