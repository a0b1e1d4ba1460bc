package app

// PlayersPerMatch is the number of names a table needs to start a match: two
// teams of two.
const PlayersPerMatch = 4
