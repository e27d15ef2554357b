package prez

// TestDeck returns a built-in deck that exercises every slide type, nesting
// level and the hidden flag. `prez gen --test` renders it to verify a
// template end to end.
func TestDeck() *DeckFile {
	return &DeckFile{
		Base:    "test_presentation",
		Numbers: true,
		Slides: Specs{
			{
				Type:     TypeTitle,
				Title:    "Test Presentation",
				Subtitle: "Verification of All Layouts",
			},
			{
				Type:     TypeContent,
				Title:    "Content Slide Test",
				Subtitle: "This is the lead-in line above the bullets",
				Content: []ContentItem{
					{Text: "First level bullet point"},
					{Text: "Second level indented", Level: 1},
					{Text: "Another second level", Level: 1},
					{Text: "Back to first level"},
					{Text: "Third level nesting", Level: 2},
				},
			},
			{
				Type:  TypeTwoColumn,
				Title: "Two Column Layout Test",
				Content: []ContentItem{
					{Text: "Left column point one"},
					{Text: "Left column point two"},
					{Text: "Left column point three"},
				},
				Content2: []ContentItem{
					{Text: "Right column point one"},
					{Text: "Right column point two"},
					{Text: "Right column point three"},
				},
			},
			{
				Type:     TypeTextImage,
				Title:    "Text and Image Layout",
				Subtitle: "Content on the left, image placeholder on the right",
				Content: []ContentItem{
					{Text: "Key finding number one"},
					{Text: "Supporting detail", Level: 1},
					{Text: "Key finding number two"},
					{Text: "More supporting data", Level: 1},
					{Text: "Key finding number three"},
				},
			},
			{
				Type:  TypeHighlight,
				Title: "Highlight Slide Test",
				Content: []ContentItem{
					{Text: "This slide uses <<highlighted text>> to draw attention"},
					{Text: "Nested bullet with an <<emphasis>> marker", Level: 1},
					{Text: "Another line with <<key metrics>> called out"},
					{Text: "Plain line without any markers"},
				},
			},
			{
				Type:     TypeConclusion,
				Subtitle: "Summary of this test presentation",
				Content: []ContentItem{
					{Text: "All eight slide types render"},
					{Text: "Brand theme styling is applied"},
					{Text: "Nesting levels clamp to the deepest style"},
					{Text: "Hidden slides stay out of the slide show"},
				},
			},
			{
				Type:   TypeQuote,
				Title:  "This is a test quote to verify the gradient background",
				Hidden: true,
			},
			{
				Type:     TypeSplit,
				Title:    "Split Layout Test",
				Subtitle: "With Right Image",
				Hidden:   true,
			},
		},
	}
}
