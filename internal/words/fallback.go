package words

// fallbackWords is the offline candidate pool. It doubles as the rotating
// list of terms tried against the dictionary API and as the source of
// curated definitions when the API is down or returns something unusable.
var fallbackWords = []Word{
	{Term: "serendipity", Definition: "Finding something nice when you weren't looking for it", PartOfSpeech: "noun", Example: "It was serendipity when I found my favorite toy under the bed!"},
	{Term: "ephemeral", Definition: "Something that doesn't last very long", PartOfSpeech: "adjective", Example: "Rainbows are ephemeral - they disappear quickly!"},
	{Term: "ubiquitous", Definition: "Something that is everywhere you look", PartOfSpeech: "adjective", Example: "Cars are ubiquitous in the city - you see them everywhere!"},
	{Term: "eloquent", Definition: "Speaking in a beautiful and clear way", PartOfSpeech: "adjective", Example: "The storyteller was so eloquent that everyone listened quietly."},
	{Term: "resilient", Definition: "Bouncing back quickly when something bad happens", PartOfSpeech: "adjective", Example: "Kids are resilient - they get up and try again when they fall!"},
	{Term: "authentic", Definition: "Real and true, not fake", PartOfSpeech: "adjective", Example: "This is an authentic dinosaur bone from millions of years ago!"},
	{Term: "innovative", Definition: "Coming up with new and clever ideas", PartOfSpeech: "adjective", Example: "The inventor was innovative - he created a robot that cleans rooms!"},
	{Term: "persistent", Definition: "Not giving up, even when it's hard", PartOfSpeech: "adjective", Example: "The persistent ant kept carrying food until it reached its home."},
	{Term: "versatile", Definition: "Able to do many different things", PartOfSpeech: "adjective", Example: "A pencil is versatile - you can write, draw, and even use it as a ruler!"},
	{Term: "diligent", Definition: "Working hard and being careful with your work", PartOfSpeech: "adjective", Example: "The diligent student finished all her homework before playing."},
	{Term: "magnificent", Definition: "Very beautiful and impressive", PartOfSpeech: "adjective", Example: "The magnificent castle had towers that touched the clouds!"},
	{Term: "curious", Definition: "Wanting to know more about things", PartOfSpeech: "adjective", Example: "The curious cat explored every corner of the new house."},
	{Term: "generous", Definition: "Sharing with others and being kind", PartOfSpeech: "adjective", Example: "The generous boy shared his cookies with his friends."},
	{Term: "courageous", Definition: "Brave and not afraid to do the right thing", PartOfSpeech: "adjective", Example: "The courageous firefighter saved the kitten from the tree."},
	{Term: "brilliant", Definition: "Very smart and clever", PartOfSpeech: "adjective", Example: "The brilliant scientist discovered how to make plants grow faster."},
	{Term: "adventurous", Definition: "Loving to try new things and explore", PartOfSpeech: "adjective", Example: "The adventurous explorer climbed the highest mountain."},
	{Term: "compassionate", Definition: "Caring about others and their feelings", PartOfSpeech: "adjective", Example: "The compassionate nurse comforted the scared little patient."},
	{Term: "enthusiastic", Definition: "Very excited and happy about something", PartOfSpeech: "adjective", Example: "The enthusiastic puppy wagged its tail when it saw its owner."},
	{Term: "determined", Definition: "Having a strong goal and working hard to reach it", PartOfSpeech: "adjective", Example: "The determined athlete practiced every day to win the race."},
	{Term: "imaginative", Definition: "Good at thinking of creative and fun ideas", PartOfSpeech: "adjective", Example: "The imaginative artist painted pictures of flying elephants!"},
	{Term: "meticulous", Definition: "Being very careful and paying attention to small details", PartOfSpeech: "adjective", Example: "The meticulous builder made sure every brick was perfectly straight."},
	{Term: "optimistic", Definition: "Always thinking that good things will happen", PartOfSpeech: "adjective", Example: "The optimistic girl believed she would find her lost toy."},
	{Term: "tenacious", Definition: "Holding on tightly and not letting go", PartOfSpeech: "adjective", Example: "The tenacious dog held onto its toy and wouldn't let go."},
	{Term: "astute", Definition: "Very smart and good at understanding things quickly", PartOfSpeech: "adjective", Example: "The astute detective solved the mystery in just one day."},
	{Term: "charismatic", Definition: "Having a special charm that makes people like you", PartOfSpeech: "adjective", Example: "The charismatic teacher made learning fun for everyone."},
	{Term: "perspicacious", Definition: "Having a deep understanding and insight into things", PartOfSpeech: "adjective", Example: "The perspicacious teacher could see when students were struggling."},
	{Term: "magnanimous", Definition: "Generous in forgiving others and not holding grudges", PartOfSpeech: "adjective", Example: "The magnanimous winner congratulated the other team."},
	{Term: "voracious", Definition: "Having a huge appetite for something, especially reading", PartOfSpeech: "adjective", Example: "The voracious reader finished three books in one week."},
	{Term: "enigmatic", Definition: "Mysterious and difficult to understand", PartOfSpeech: "adjective", Example: "The enigmatic painting left everyone wondering what it meant."},
	{Term: "sagacious", Definition: "Wise and showing good judgment", PartOfSpeech: "adjective", Example: "The sagacious elder gave wise advice to the young people."},
	{Term: "prudent", Definition: "Careful and sensible in making decisions", PartOfSpeech: "adjective", Example: "The prudent investor saved money for emergencies."},
	{Term: "arduous", Definition: "Requiring great effort and hard work", PartOfSpeech: "adjective", Example: "The arduous journey through the mountains took weeks."},
	{Term: "concise", Definition: "Brief but comprehensive and clear", PartOfSpeech: "adjective", Example: "The concise explanation helped everyone understand quickly."},
}

// Fallback returns a copy of the offline word list.
func Fallback() []Word {
	out := make([]Word, len(fallbackWords))
	copy(out, fallbackWords)
	return out
}

func fallbackByTerm(term string) (Word, bool) {
	term = Normalize(term)
	for _, w := range fallbackWords {
		if w.Term == term {
			return w, true
		}
	}
	return Word{}, false
}
