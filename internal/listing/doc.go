// Package listing expands the listing regions a visual page builder leaves in
// a page's HTML.
//
// The builder marks regions with paired HTML comments. A listing region
// repeats an item template once per content item:
//
//	<!--blog-->
//	  <!--blog_options_json--><!--{"source":"News","count":3}--><!--/blog_options_json-->
//	  <div class="u-repeater">
//	    <!--blog_post--><div class="u-blog-post">
//	      <!--blog_post_header--><h2><a href="#"><!--blog_post_header_content-->Title<!--/blog_post_header_content--></a></h2><!--/blog_post_header-->
//	      ...
//	    </div><!--/blog_post-->
//	  </div>
//	  <!--blog_pagination-->...<!--/blog_pagination-->
//	<!--/blog-->
//
// A detail region (<!--post_details-->) renders a single explicit item
// through the same item template and field handlers.
//
// Rendering is a text transform: regions are located with a marker scanner
// (FindBlock, ReplaceBlocks), never with an HTML parser. Every marker the
// renderer understands is consumed, so rendering its own output again is a
// no-op.
//
// Missing data never fails a render. An undecodable options payload means
// default options, an empty source renders no items, and an offset past the
// end renders an empty page. Only errors from the content Source are
// returned to the caller.
//
// A Renderer keeps no state between calls. Each RenderPage call owns a fresh
// renderState holding the item queue, the pagination context of the current
// block and the block position counter.
package listing
