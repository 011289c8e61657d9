package qadocs

// Version is set at build time with -ldflags "-X github.com/a-h/qadocs.Version=...".
var Version = "dev"
