package profanity

// defaultWords is the built-in list of forbidden substrings. Entries are
// matched anywhere in the input, so short stems catch their derivatives.
var defaultWords = []string{
	"anal",
	"anus",
	"arse",
	"ass",
	"bastard",
	"bitch",
	"bollock",
	"boner",
	"boob",
	"bugger",
	"bukkake",
	"bullshit",
	"butthole",
	"chink",
	"clit",
	"cock",
	"coon",
	"crap",
	"cum",
	"cunt",
	"damn",
	"dick",
	"dildo",
	"dyke",
	"fag",
	"feck",
	"fellate",
	"fuck",
	"fuk",
	"goddamn",
	"gook",
	"handjob",
	"hooker",
	"jizz",
	"kike",
	"knob",
	"milf",
	"motherfucker",
	"nazi",
	"nigga",
	"nigger",
	"nude",
	"orgasm",
	"paki",
	"penis",
	"piss",
	"poop",
	"porn",
	"prick",
	"pube",
	"pussy",
	"queef",
	"rape",
	"retard",
	"rimjob",
	"scrotum",
	"sex",
	"shit",
	"skank",
	"slut",
	"spic",
	"tits",
	"twat",
	"vagina",
	"wank",
	"whore",
}
