package query

import (
	"fmt"
	"strings"

	"github.com/sells-group/cusip-cli/pkg/customsearch"
)

const groundedPromptTemplate = `You are a financial data expert. Search the web for comprehensive information about the following CUSIP security.

CUSIP: %s

Please search for and extract the following information for this CUSIP:
%s

Instructions:
1. Search reliable financial data sources (FINRA, SEC, Bloomberg, Reuters, bond marketplaces, etc.)
2. Look for PDF documents, official filings, prospectuses, and fact sheets that may contain this information
3. Extract each requested attribute with its specific value
4. For maturity-related attributes:
   - If multiple maturities exist, extract ALL of them
   - Include maturity dates and corresponding principal amounts
   - Calculate WAM if requested: WAM = Sum(Maturity_i x Principal_i) / Sum(Principal_i)
5. Provide specific values with units (e.g., "5.25%%", "$1,000,000", "2030-12-15")
6. Cite the exact source URL or document name for each piece of information

Format your response as a JSON object with the requested attributes:
{
  "cusip": "%s",
  "attributes": %s,
  "sources": ["list of all source URLs and documents"]
}

Important:
- Only include the attributes that were requested
- If you cannot find information for an attribute, set value to "Not Available" and explain why in the source field
- If you find information in PDF documents, include the PDF URL in sources`

const searchResultsPromptTemplate = `You are a financial data expert. Extract comprehensive information about the following CUSIP security from the search results provided below.

CUSIP: %s

Please extract the following information for this CUSIP:
%s
%s
Instructions:
1. Analyze the search results provided above
2. Extract each requested attribute with its specific value from the search results
3. For maturity-related attributes:
   - If multiple maturities exist, extract ALL of them
   - Include maturity dates and corresponding principal amounts
   - Calculate WAM if requested: WAM = Sum(Maturity_i x Principal_i) / Sum(Principal_i)
4. Provide specific values with units (e.g., "5.25%%", "$1,000,000", "2030-12-15")
5. Cite the exact source URL from the search results for each piece of information

Format your response as a JSON object with the requested attributes:
{
  "cusip": "%s",
  "attributes": %s,
  "sources": ["list of all source URLs used"]
}

Important:
- Only include the attributes that were requested
- If you cannot find information for an attribute in the search results, set value to "Not Available" and explain why in the source field
- Always cite specific URLs from the search results provided`

// buildPrompt constructs the lookup prompt. When search results are supplied
// they are embedded and the model is told to extract from them; otherwise the
// model is instructed to search the web itself.
func buildPrompt(cusip string, attributes []string, results []customsearch.Result) string {
	attributesStr := strings.Join(attributes, ", ")
	schema := buildAttributeSchema(attributes)

	if len(results) == 0 {
		return fmt.Sprintf(groundedPromptTemplate, cusip, attributesStr, cusip, schema)
	}

	var ctx strings.Builder
	ctx.WriteString("\n\n## Search Results Provided:\n\nHere are relevant search results to help you extract the information:\n\n")
	for i, r := range results {
		fmt.Fprintf(&ctx, "%d. **%s**\n   URL: %s\n   Snippet: %s\n\n", i+1, r.Title, r.Link, r.Snippet)
	}
	ctx.WriteString("Use these search results to extract the requested information. Cite the specific URLs in your response.\n")

	return fmt.Sprintf(searchResultsPromptTemplate, cusip, attributesStr, ctx.String(), cusip, schema)
}

// buildAttributeSchema renders the expected attributes object, one field per
// requested attribute keyed by its snake_case name.
func buildAttributeSchema(attributes []string) string {
	var fields []string
	for _, attr := range attributes {
		key := strings.ReplaceAll(strings.ToLower(attr), " ", "_")
		fields = append(fields, fmt.Sprintf(`    %q: {"value": "...", "source": "...", "confidence": "high/medium/low"}`, key))
	}
	return "{\n" + strings.Join(fields, ",\n") + "\n  }"
}
