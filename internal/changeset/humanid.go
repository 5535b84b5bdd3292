package changeset

import (
	"math/rand/v2"
	"strings"
)

var (
	idAdjectives = []string{
		"angry", "brave", "bright", "calm", "chilly", "clever", "cold", "cool",
		"curly", "dirty", "eager", "early", "empty", "fair", "fancy", "fast",
		"fluffy", "forty", "fresh", "funny", "gentle", "giant", "gold", "good",
		"great", "green", "happy", "heavy", "hip", "honest", "huge", "hungry",
		"kind", "large", "late", "lazy", "light", "little", "long", "loud",
		"lovely", "lucky", "mean", "mighty", "modern", "nasty", "neat", "nervous",
		"new", "nice", "odd", "old", "olive", "orange", "polite", "poor",
		"pretty", "proud", "purple", "quick", "quiet", "rare", "red", "rich",
		"rotten", "rude", "selfish", "serious", "shaggy", "sharp", "short", "shy",
		"silent", "silly", "slimy", "slow", "small", "smart", "smooth", "soft",
		"sour", "spicy", "spotty", "stale", "strange", "strong", "sweet", "swift",
		"tall", "tame", "tasty", "ten", "thick", "thin", "tidy", "tiny",
		"tough", "tricky", "twelve", "violet", "warm", "weak", "wet", "wicked",
		"wild", "wise", "witty", "yellow", "young", "yummy",
	}
	idNouns = []string{
		"ads", "ants", "apes", "apples", "bags", "banks", "bats", "beans",
		"bears", "beds", "bees", "bikes", "birds", "boats", "books", "boxes",
		"buses", "buttons", "cameras", "candles", "cars", "cats", "chairs", "cheetahs",
		"chefs", "clocks", "clouds", "coats", "cobras", "cooks", "cows", "crabs",
		"cups", "dancers", "deers", "doors", "dots", "dragons", "ducks", "eagles",
		"ears", "eels", "eggs", "elephants", "eyes", "falcons", "fans", "feet",
		"files", "fireants", "fishes", "flies", "forks", "foxes", "frogs", "geckos",
		"goats", "grapes", "guests", "hairs", "hats", "hornets", "horses", "houses",
		"icons", "islands", "jars", "jeans", "keys", "kids", "kings", "kiwis",
		"knives", "lamps", "laws", "lemons", "lions", "lizards", "llamas", "mails",
		"mangos", "maps", "masks", "mice", "mirrors", "moles", "moons", "mugs",
		"news", "numbers", "olives", "onions", "owls", "pandas", "pans", "pants",
		"papayas", "parents", "parrots", "pears", "peas", "pens", "pets", "phones",
		"pianos", "pigs", "pillows", "planes", "plants", "plums", "poets", "points",
		"pots", "queens", "rabbits", "radios", "rats", "rings", "rivers", "roses",
		"rules", "schools", "seahorses", "seals", "sheep", "shirts", "shoes", "singers",
		"snails", "snakes", "socks", "spiders", "spoons", "squids", "stars", "steaks",
		"suits", "swans", "tables", "taxis", "teams", "tigers", "toes", "tomatoes",
		"tools", "towns", "toys", "trains", "trees", "turtles", "vans", "walls",
		"waves", "wolves", "worms", "zebras",
	}
	idVerbs = []string{
		"accept", "add", "admire", "agree", "allow", "appear", "argue", "arrive",
		"attack", "attend", "bake", "bathe", "battle", "beam", "beg", "behave",
		"bet", "boil", "bow", "brake", "breathe", "brush", "build", "burn",
		"buy", "call", "camp", "care", "carry", "change", "cheat", "check",
		"cheer", "chew", "clap", "clean", "compare", "complain", "confess", "cough",
		"count", "cover", "crash", "cross", "cry", "dance", "decide", "deliver",
		"deny", "design", "destroy", "develop", "divide", "doubt", "draw", "dream",
		"dress", "drive", "drop", "eat", "enjoy", "explain", "exercise", "explode",
		"fail", "fetch", "film", "fix", "flash", "float", "flow", "fly",
		"fold", "glow", "greet", "grin", "grow", "guess", "hammer", "hang",
		"happen", "heal", "hear", "help", "hide", "hope", "hug", "hunt",
		"impress", "invent", "joke", "jump", "kick", "kiss", "knock", "know",
		"laugh", "learn", "leave", "lick", "lie", "listen", "live", "look",
		"love", "marry", "matter", "melt", "mix", "move", "nail", "notice",
		"obey", "occur", "own", "pay", "peel", "perform", "play", "poke",
		"pretend", "promise", "protect", "provide", "pull", "punch", "push", "raise",
		"rescue", "rest", "retire", "return", "rhyme", "run", "rush", "sell",
		"serve", "shake", "share", "shave", "shine", "shop", "shout", "sin",
		"sing", "sip", "sit", "sleep", "smash", "smell", "smile", "sneeze",
		"sniff", "speak", "suffer", "swim", "switch", "talk", "taste", "teach",
		"tease", "tell", "thank", "think", "train", "travel", "try", "turn",
		"type", "unite", "visit", "wait", "walk", "warn", "wash", "watch",
		"wave", "whisper", "win", "wink", "wonder", "work", "worry", "yawn",
	}
)

// NewHumanID returns a readable identifier such as "brave-pandas-dance".
func NewHumanID() string {
	return strings.Join([]string{
		idAdjectives[rand.IntN(len(idAdjectives))],
		idNouns[rand.IntN(len(idNouns))],
		idVerbs[rand.IntN(len(idVerbs))],
	}, "-")
}
