// Package model defines the data types shared across zotsearch.
//
// The types here are plain data holders: a fetched Page, the CrawlResult
// accumulated by one crawl run, the persisted Document and Posting records,
// and the Hit/SearchReport values handed to report writers. Behavior lives
// in the crawler, database, and index packages.
package model
