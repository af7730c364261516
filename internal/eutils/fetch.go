package eutils

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
)

// XML structures for the author part of PubMed EFetch responses.

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    xmlPMID    `xml:"PMID"`
	Article xmlArticle `xml:"Article"`
}

type xmlPMID struct {
	Value string `xml:",chardata"`
}

type xmlArticle struct {
	AuthorList xmlAuthorList `xml:"AuthorList"`
}

type xmlAuthorList struct {
	Authors []xmlAuthor `xml:"Author"`
}

type xmlAuthor struct {
	ValidYN         string               `xml:"ValidYN,attr"`
	LastName        string               `xml:"LastName"`
	ForeName        string               `xml:"ForeName"`
	Initials        string               `xml:"Initials"`
	CollectiveName  string               `xml:"CollectiveName"`
	AffiliationInfo []xmlAffiliationInfo `xml:"AffiliationInfo"`
}

type xmlAffiliationInfo struct {
	Affiliation string `xml:"Affiliation"`
}

// Affiliations fetches the author lists of the given PMIDs from EFetch,
// keyed by PMID. ESummary omits affiliations, EFetch carries them.
func (c *Client) Affiliations(ctx context.Context, pmids []string) (map[string][]Author, error) {
	if len(pmids) == 0 {
		return map[string][]Author{}, nil
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("rettype", "xml")
	params.Set("retmode", "xml")

	body, err := c.DoGet(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("fetch request failed: %w", err)
	}

	return parseAuthors(body)
}

// parseAuthors parses PubMed XML into per-PMID author lists.
func parseAuthors(data []byte) (map[string][]Author, error) {
	var articleSet pubmedArticleSet
	if err := xml.Unmarshal(data, &articleSet); err != nil {
		return nil, fmt.Errorf("parsing PubMed XML: %w", err)
	}

	out := make(map[string][]Author, len(articleSet.Articles))
	for _, pa := range articleSet.Articles {
		pmid := strings.TrimSpace(pa.Citation.PMID.Value)
		var authors []Author
		for _, au := range pa.Citation.Article.AuthorList.Authors {
			if au.ValidYN == "N" {
				continue
			}
			author := Author{
				LastName:       au.LastName,
				ForeName:       au.ForeName,
				Initials:       au.Initials,
				CollectiveName: au.CollectiveName,
			}
			if len(au.AffiliationInfo) > 0 {
				author.Affiliation = strings.TrimSpace(au.AffiliationInfo[0].Affiliation)
			}
			authors = append(authors, author)
		}
		out[pmid] = authors
	}

	return out, nil
}
