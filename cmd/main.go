package main

import (
	cmd "github.com/Yui007/MangaForge/cmd/mangaforge"
)

func main() {
	cmd.Execute()
}
