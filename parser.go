package pcfg

// Parser is the struct for PCFG parsing. A Parser is read-only once built and
// may parse sentences from several goroutines at once
type Parser struct {
	grammar *CNFGrammar

	// Unknown is the terminal whose rules tag tokens the grammar has no rule
	// for. Empty disables the fallback
	Unknown string

	logger Logger
	debug  bool
}

// NewParser creates a new instance of PCFG parser from the text of a grammar
// in Chomsky normal form with a probability on every rule
func NewParser(pcfgGrammar string) (*Parser, error) {
	grammar, err := ParseGrammar(pcfgGrammar)
	if err != nil {
		return nil, err
	}
	cnfGrammar, err := NewCNFGrammar(grammar)
	if err != nil {
		return nil, err
	}
	return NewParserFromGrammar(cnfGrammar), nil
}

// NewParserFromGrammar creates a parser for an indexed grammar
func NewParserFromGrammar(grammar *CNFGrammar) *Parser {
	return &Parser{
		grammar: grammar,
		Unknown: UnknownWord,
		logger:  nopLogger{},
	}
}

// Grammar returns the grammar of the parser
func (p *Parser) Grammar() *CNFGrammar {
	return p.grammar
}

// SetLogger makes the parser report to logger
func (p *Parser) SetLogger(logger Logger) {
	p.logger = orNop(logger)
}

// DebugMode makes the parser log every row of the CKY chart
func (p *Parser) DebugMode() {
	p.debug = true
}

// Parse parses query using the PCFG grammar. If query matches the grammar,
// returns the most probable parsing tree. Otherwise, return nil
func (p *Parser) Parse(query []string) *Tree {
	c := p.chart(query)
	tree := c.extract()
	if tree == nil {
		p.logger.Debug("no parse", "tokens", len(query))
	}
	return tree
}

// ParseSentence tokenizes sentence with Tokenize and parses the tokens
func (p *Parser) ParseSentence(sentence string) *Tree {
	return p.Parse(Tokenize(sentence))
}

func (p *Parser) chart(query []string) *chart {
	logger := orNop(p.logger)
	c := newChart(p.grammar, query)
	c.fill(p.Unknown, logger, p.debug)
	return c
}
