package services

// defaultInterest keys the table when the learner picked no interest.
const defaultInterest = "Technology"

// maxSuggestions caps how many example prompts a front end shows.
const maxSuggestions = 5

var fallbackSuggestions = []string{"Ask about study strategies", "Get learning recommendations"}

// examplePrompts is keyed by learning style, then primary interest.
// Reading/Writing has no entries and always falls back.
var examplePrompts = map[string]map[string][]string{
	"Visual": {
		"Technology": {
			"Show me a diagram explaining blockchain",
			"Create a visual guide to machine learning algorithms",
			"Explain the structure of a computer network using a diagram",
			"Illustrate the components of a smartphone",
			"Visualize the difference between frontend and backend development",
		},
		"Science": {
			"Visualize the process of photosynthesis",
			"Draw a diagram of DNA replication",
			"Show me a schematic of the solar system",
			"Illustrate the layers of the Earth's atmosphere",
			"Draw the lifecycle of a butterfly",
		},
		"Arts": {
			"Show me a flowchart of art history movements",
			"Visualize the steps of drawing a human face",
			"Create a color wheel diagram",
			"Illustrate how to sketch perspective in art",
		},
		"Mathematics": {
			"Visualize the Pythagorean theorem",
			"Draw a graph of a quadratic equation",
			"Illustrate the steps of solving an equation",
			"Create a diagram explaining fractions",
			"Show me a chart for basic geometry formulas",
		},
		"Business": {
			"Create a flowchart explaining the sales process",
			"Visualize the structure of a startup organization",
			"Draw a pie chart of market share for industries",
			"Illustrate the customer journey in a business",
			"Create a bar graph showing profit vs expenses",
		},
		"Humanities": {
			"Visualize a timeline of World War II events",
			"Illustrate the structure of a democracy",
			"Draw a chart of ancient civilizations",
			"Create a map showing major trade routes in history",
			"Visualize the family tree of a royal dynasty",
		},
	},
	"Auditory": {
		"Technology": {
			"Recommend podcasts about AI trends",
			"Explain coding concepts through storytelling",
			"Describe machine learning algorithms narratively",
			"Talk about the history of programming languages",
			"Narrate the evolution of the internet",
		},
		"Science": {
			"Explain quantum physics in a narrative way",
			"Describe biological processes as a story",
			"Tell a story about the discovery of gravity",
			"Explain the water cycle in simple words",
			"Describe the journey of a single raindrop",
		},
		"Arts": {
			"Tell a story about the life of a famous artist",
			"Narrate how a painting can convey emotions",
			"Explain the evolution of modern art styles",
			"Describe the process of composing music",
			"Talk about the significance of colors in art",
		},
		"Mathematics": {
			"Tell a story about the discovery of zero",
			"Explain how math is used in everyday life",
			"Describe a simple way to remember multiplication tables",
			"Narrate the concept of infinity in mathematics",
			"Explain how math was used in ancient architecture",
		},
		"Business": {
			"Describe the basics of entrepreneurship narratively",
			"Talk about the story of a successful startup",
			"Explain marketing strategies through examples",
			"Tell a story about the evolution of the stock market",
			"Describe the life of a famous businessperson",
		},
		"Humanities": {
			"Explain the French Revolution as a story",
			"Narrate the causes and effects of the Industrial Revolution",
			"Describe the daily life of ancient Romans",
			"Tell the story of a famous historical figure",
			"Explain the Silk Road trade as a journey",
		},
	},
	"Kinesthetic": {
		"Technology": {
			"Suggest hands-on coding projects",
			"Describe interactive learning for programming",
			"Recommend project-based learning resources",
			"Create a small project to understand IoT concepts",
			"Try building a simple website step by step",
		},
		"Science": {
			"Suggest science experiments for learning",
			"Describe interactive ways to understand complex concepts",
			"Recommend building a simple volcano model",
			"Do an experiment to measure the speed of a toy car",
			"Test the pH of common household liquids",
		},
		"Arts": {
			"Try painting a landscape using watercolors",
			"Sculpt a small model using clay",
			"Create a collage using old magazines",
			"Design your own greeting card",
			"Sketch a still life scene from your surroundings",
		},
		"Mathematics": {
			"Use paper to fold shapes and learn geometry",
			"Solve puzzles to understand number patterns",
			"Build a model of a 3D shape using toothpicks",
			"Measure items around you to practice units and scales",
			"Create your own math game using dice",
		},
		"Business": {
			"Simulate a negotiation exercise with friends",
			"Create a simple business plan for a lemonade stand",
			"Role-play pitching a product idea to investors",
			"Track expenses and profits from a small activity",
			"Conduct a mock customer survey",
		},
		"Humanities": {
			"Recreate a historical event as a small play",
			"Map the journey of an explorer using a globe",
			"Create a scrapbook of cultural festivals",
			"Draw a timeline of key historical events",
			"Write a letter as if you're living in a historical period",
		},
	},
}

// ExampleSuggestions returns up to five example questions for the learner's
// style and first interest. Education level does not change the selection.
func ExampleSuggestions(learningStyle string, interests []string, _ string) []string {
	interest := defaultInterest
	if len(interests) > 0 {
		interest = interests[0]
	}

	prompts, ok := examplePrompts[learningStyle][interest]
	if !ok {
		prompts = fallbackSuggestions
	}
	if len(prompts) > maxSuggestions {
		prompts = prompts[:maxSuggestions]
	}
	out := make([]string, len(prompts))
	copy(out, prompts)
	return out
}
