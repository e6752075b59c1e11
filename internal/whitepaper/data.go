package whitepaper

// Representation

type Section struct {
	heading string
	level   int
	body    string
}

func NewSection(
	heading string,
	level int,
	body string,
) Section {
	return Section{
		heading: heading,
		level:   level,
		body:    body,
	}
}

func (s *Section) Heading() string {
	return s.heading
}

func (s *Section) Level() int {
	return s.level
}

func (s *Section) Body() string {
	return s.body
}

type Analysis struct {
	sourceURL       string
	sections        []Section
	useCaseScore    int
	technologyScore int
	totalSupply     string
	blockTime       string
	consensus       string
}

func (a *Analysis) SourceURL() string {
	return a.sourceURL
}

func (a *Analysis) Sections() []Section {
	out := make([]Section, len(a.sections))
	copy(out, a.sections)
	return out
}

// UseCaseScore grades how concretely the document argues for real-world
// usage, on a 0 to 100 scale.
func (a *Analysis) UseCaseScore() int {
	return a.useCaseScore
}

// TechnologyScore grades the depth of the technical material, on a
// 0 to 100 scale.
func (a *Analysis) TechnologyScore() int {
	return a.technologyScore
}

func (a *Analysis) TotalSupply() string {
	return a.totalSupply
}

func (a *Analysis) BlockTime() string {
	return a.blockTime
}

func (a *Analysis) Consensus() string {
	return a.consensus
}

func NewAnalysisForTest(
	sourceURL string,
	sections []Section,
	useCaseScore int,
	technologyScore int,
	totalSupply string,
	blockTime string,
	consensus string,
) Analysis {
	return Analysis{
		sourceURL:       sourceURL,
		sections:        sections,
		useCaseScore:    useCaseScore,
		technologyScore: technologyScore,
		totalSupply:     totalSupply,
		blockTime:       blockTime,
		consensus:       consensus,
	}
}
