package textlab

// Sample texts used by the demos.
var (
	// Sample is an excerpt from "Do not go gentle into that good night" by Dylan Thomas.
	Sample = CollapseSpace(`Do not go gentle into that good night.
            Old age should burn and rave at close of day.
            Rage, rage against the dying of the light.

            Though wise men at their end know dark is right.
            Because their words had forked no lightning they.
            Do not go gentle into that good night.`)

	// SampleTweet is a tweet with handles, a time and a URL.
	SampleTweet = CollapseSpace(`.@SpaceX is now targeting May 1 at 3:59am ET for the next
                cargo launch to the @Space_Station. Onboard will be more
                than 5,500 pounds of @ISS_Research, supplies and hardware
                for crew members living and working on our orbiting outpost.
                Details: https://go.nasa.gov/2GExQpL `)

	// SampleContractions is full of English contractions.
	SampleContractions = CollapseSpace(` Money, get back.
                I'm all right Jack keep your hands off of my stack.
                Money, it's a hit.
                Don't give me that do goody good bullshit.
                I'm in the high-fidelity first class traveling set.
                And I think I need a Lear jet.`)
)

// Short quotes used by the tagging, chunking and transformation demos.
const (
	Quote1 = "The cake is a lie, but the cherry is not"
	Quote2 = "A wizard is never late"
	Quote3 = "The meeting was boring"
	Quote4 = "Most of the Top 10 companies in the world are in the tech business"
	Quote5 = "The sentence of death"
	Quote6 = "The shores picture"
	Quote7 = "The picture of costlines is beautiful"
	Quote8 = "The greatest glory in living lies not in never falling, but in rising every time we fall"

	// Wrong1 and Wrong2 have verb agreement errors.
	Wrong1 = "Is the children singing"
	Wrong2 = "The doctor were right"
)

// RepeatSamples are the words used by the repeated-character demo.
var RepeatSamples = []string{"looooooove", "hippopotamus", "coordination", "uuuuuuuuuuuuh"}

// ChunkGrammar chunks noun phrases, then prepositions followed by a
// noun phrase.
const ChunkGrammar = `NP: {<DT|PRP\$>?<JJ.*>*<NN.*>+}
PP: {<IN><NP>}`
