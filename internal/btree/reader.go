package btree

import "github.com/interruptlabs/symconv/internal/ioutil"

// ReadPages reads every reachable raw page of an ID0 B-tree starting
// right after the header's page-0 slot. The header occupies page index
// 0 (skipped); real pages are numbered from 1. pageCount from the
// section header is only a starting guess, exactly as the reference
// reader treats it: reading continues until every page index
// referenced by an already-read page (its FirstChildPage or any
// entry's ChildPage) has itself been read, per the container's
// documented page_count unreliability.
func ReadPages(r ioutil.ReaderAt, sectionStart int64, pageSize uint16, rootPageIndex, pageCount uint32) (map[uint32]*RawPage, error) {
	pages := make(map[uint32]*RawPage)

	highest := rootPageIndex
	if pageCount > 0 && pageCount-1 > highest {
		highest = pageCount - 1
	}
	if highest < 1 {
		highest = 1
	}

	for pageIndex := uint32(1); pageIndex <= highest; pageIndex++ {
		offset := sectionStart + int64(pageSize)*int64(pageIndex)
		data, err := ioutil.ReadBytes(r, offset, int(pageSize))
		if err != nil {
			return nil, ioutil.Wrap("read btree page", ioutil.ErrIoFailure, err)
		}

		page, err := DecodePage(data)
		if err != nil {
			return nil, err
		}
		pages[pageIndex] = page

		if page.FirstChildPage > highest {
			highest = page.FirstChildPage
		}
		for _, e := range page.Entries {
			if e.ChildPage > highest {
				highest = e.ChildPage
			}
		}
	}

	return pages, nil
}
