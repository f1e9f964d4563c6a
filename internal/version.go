package internal

// Version is the current ordkort release version.
const Version = "0.3.1"
